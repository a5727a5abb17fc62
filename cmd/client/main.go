package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/actuallystonmai/boutique-recommendation/internal/hipstershop"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

var (
	host       string
	userID     string
	productIDs []string
	timeout    time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "client [port]",
	Short: "Send one ListRecommendations call to a running server",
	Long: `Calls hipstershop.RecommendationService/ListRecommendations on
host:port (default localhost:8080) and prints the returned product ids.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		conn, err := connect(args)
		if err != nil {
			return err
		}
		defer conn.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		resp, err := hipstershop.NewRecommendationServiceClient(conn).ListRecommendations(ctx,
			&hipstershop.ListRecommendationsRequest{UserID: userID, ProductIDs: productIDs})
		if err != nil {
			return fmt.Errorf("list recommendations: %w", err)
		}

		cmd.Printf("product_ids: [%s]\n", strings.Join(resp.ProductIDs, ", "))
		return nil
	},
}

var healthCmd = &cobra.Command{
	Use:   "health [port]",
	Short: "Query grpc.health.v1.Health/Check",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		conn, err := connect(args)
		if err != nil {
			return err
		}
		defer conn.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		resp, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{})
		if err != nil {
			return fmt.Errorf("health check: %w", err)
		}

		cmd.Printf("status: %s\n", resp.GetStatus())
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&host, "host", "localhost", "server host")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 5*time.Second, "call timeout")
	rootCmd.Flags().StringVar(&userID, "user-id", "test", "user id sent with the request")
	rootCmd.Flags().StringSliceVar(&productIDs, "product-id", []string{"test"}, "product ids to exclude")
	rootCmd.AddCommand(healthCmd)
}

func connect(args []string) (*grpc.ClientConn, error) {
	port := "8080"
	if len(args) > 0 {
		port = args[0]
	}
	return grpc.NewClient(net.JoinHostPort(host, port),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		hipstershop.DialOption(),
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
