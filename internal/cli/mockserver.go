// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jeranaias/rigchat/internal/mockserver"
)

func newMockServerCommand(a *app) *cobra.Command {
	var (
		port    int
		shape   string
		latency time.Duration
		rps     float64
		origins []string
	)

	shapes := make([]string, 0, len(mockserver.Shapes()))
	for _, s := range mockserver.Shapes() {
		shapes = append(shapes, string(s))
	}

	cmd := &cobra.Command{
		Use:   "mock-server",
		Short: "Run a local endpoint that answers in every supported reply shape",
		Long: `Run a local endpoint for trying rigchat without a real backend.

POST / answers with the configured shape; POST /<shape> forces one.
Shapes: ` + strings.Join(shapes, ", ") + `.`,
		Example: `  rigchat mock-server --shape cycle
  rigchat --endpoint http://127.0.0.1:8787/text ask "hi"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sh, err := mockserver.ParseShape(shape)
			if err != nil {
				return err
			}

			srv := mockserver.New(mockserver.Options{
				Port:    port,
				Shape:   sh,
				Latency: latency,
				Rate:    rps,
				Origins: origins,
			})

			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(srv.Start)
			g.Go(func() error {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			})
			return g.Wait()
		},
	}

	f := cmd.Flags()
	f.IntVar(&port, "port", mockserver.DefaultPort, "port to listen on (127.0.0.1 only)")
	f.StringVar(&shape, "shape", string(mockserver.ShapeCycle), "reply shape")
	f.DurationVar(&latency, "latency", 0, "delay before each reply")
	f.Float64Var(&rps, "rate", mockserver.DefaultRate, "requests per second before answering 429")
	f.StringSliceVar(&origins, "origin", nil, "allowed CORS origin (repeatable)")
	return cmd
}
