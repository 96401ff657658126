// Command anchord serves the anchor and suspension registries.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sanjit-bhat/anchorage/grpcapi"
	"github.com/sanjit-bhat/anchorage/internal/config"
	"github.com/sanjit-bhat/anchorage/server"
)

func main() {
	cfg, err := config.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	log.SetPrefix("[ANCHORD] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatalf("failed to serve: %v", err)
	}
}

func run(ctx context.Context, cfg config.Config) error {
	st, err := cfg.OpenStore()
	if err != nil {
		return err
	}
	defer st.Close()

	s, err := server.New(&server.Opts{
		Hash:      cfg.HashFunc(),
		Store:     st,
		Clock:     cfg.NewClock(),
		MaxProof:  cfg.MaxProof,
		AuthCache: cfg.AuthCache,
	})
	if err != nil {
		return err
	}
	log.Printf("hash %s, store %s, clock %s, max proof %d", cfg.Hash, cfg.Store, cfg.Clock, cfg.MaxProof)

	switch cfg.Transport {
	case config.TransportAdvrpc:
		rs := server.NewRpcServer(s)
		if err := rs.Serve(cfg.Addr); err != nil {
			return err
		}
		defer rs.Close()
		log.Println("advrpc listening at:", rs.Addr())
	case config.TransportUrpc:
		server.ServeUrpc(s, cfg.Addr)
		log.Println("urpc listening at:", cfg.Addr)
	case config.TransportGrpc:
		errc := make(chan error, 1)
		g := grpcapi.NewServer(s)
		go func() {
			errc <- serveGrpc(g, cfg.Addr)
		}()
		defer g.GracefulStop()
		log.Println("grpc listening at:", cfg.Addr)
		select {
		case err := <-errc:
			return err
		case <-ctx.Done():
			log.Println("shutting down")
			return nil
		}
	}

	<-ctx.Done()
	log.Println("shutting down")
	return nil
}
