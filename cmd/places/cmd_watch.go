package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"places/internal/models"
	"places/internal/placesync"
	"places/internal/position"
	"places/internal/watcher"
	"places/pkg/kafkaclient"
)

func (a *app) watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Follow the device position and the saved places until interrupted",
		Long: `
watch prints the saved places whenever they change and the device position
whenever it moved far enough. Positions are read from the Kafka topic named by
KAFKA_POSITIONS_TOPIC; without one, or without location permission, only the
places are shown.
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			if a.cfg.MetricsAddress != "" {
				reg := prometheus.NewRegistry()
				a.metrics = placesync.NewMetrics(reg)
				stop := serveMetrics(a.cfg.MetricsAddress, reg)
				defer stop()
			}

			sess, _, err := a.mount(ctx)
			if err != nil {
				return err
			}
			snapshots, unsubscribe := sess.Places.Subscribe()
			defer unsubscribe()
			a.printPlaces(sess.Places.Places())

			positions := a.startWatcher(ctx)

			for {
				select {
				case <-ctx.Done():
					return nil
				case places, ok := <-snapshots:
					if !ok {
						return nil
					}
					a.printPlaces(places)
				case pos, ok := <-positions:
					if !ok {
						positions = nil
						continue
					}
					fmt.Fprintf(a.out, "Position %.5f, %.5f\n", pos.Latitude, pos.Longitude)
				}
			}
		},
	}
}

// startWatcher returns the watcher's update stream, or nil when there is no
// position to follow.
func (a *app) startWatcher(ctx context.Context) <-chan models.Coordinate {
	if a.cfg.KafkaTopic == "" {
		log.Println("No positions topic configured, not following the device position.")
		return nil
	}

	consumer := kafkaclient.NewConsumer(kafkaclient.Config{
		Broker:  a.cfg.KafkaBroker,
		Topic:   a.cfg.KafkaTopic,
		GroupID: a.cfg.KafkaGroupID,
	})
	w := watcher.New(
		watcher.StaticPermission(a.cfg.LocationPermission),
		position.NewFeed(consumer),
		watcher.WithMinDistance(a.cfg.MinDistance),
	)
	if err := w.Start(ctx); err != nil {
		if errors.Is(err, watcher.ErrPermissionDenied) {
			log.Println("Location permission denied, not following the device position.")
		} else {
			log.Printf("Could not start the position watcher: %v", err)
		}
		return nil
	}

	log.Printf("Following positions on %s at %s", a.cfg.KafkaTopic, a.cfg.KafkaBroker)
	consumer.Start(ctx)
	go func() {
		<-ctx.Done()
		consumer.Stop()
	}()
	return w.Updates()
}

func serveMetrics(addr string, reg *prometheus.Registry) (stop func()) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		log.Printf("Serving metrics on %s/metrics", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Metrics server failed: %v", err)
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("Metrics server shutdown: %v", err)
		}
	}
}
