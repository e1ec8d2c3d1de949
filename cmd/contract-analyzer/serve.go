package main

import (
	"fmt"
	"net"
	"strings"

	"github.com/spf13/cobra"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/joseph-ayodele/contract-analyzer/internal/server"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the Analyze RPC over gRPC",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := root.setup(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if addr == "" {
				addr = a.cfg.Server.GRPCAddr
			}
			if !strings.Contains(addr, ":") {
				addr = ":" + addr
			}

			lis, err := net.Listen("tcp", addr)
			if err != nil {
				return fmt.Errorf("listen %s: %w", addr, err)
			}
			svc := server.NewAnalyzerService(a.service, a.cfg.Extract.MaxDocumentMB, a.logger)
			grpcServer, hs := server.NewGRPCServer(svc, a.logger)

			serveErr := make(chan error, 1)
			go func() {
				a.logger.Info("grpc.serving", "addr", lis.Addr().String())
				serveErr <- grpcServer.Serve(lis)
			}()

			select {
			case <-cmd.Context().Done():
				a.logger.Info("grpc.shutdown")
				hs.Shutdown()
				grpcServer.GracefulStop()
				return nil
			case err := <-serveErr:
				hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
				return err
			}
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: GRPC_ADDR env)")
	return cmd
}
