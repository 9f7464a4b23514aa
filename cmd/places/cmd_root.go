package main

import (
	"context"
	"io"
	"log"

	"github.com/spf13/cobra"

	"places/internal/env"
	"places/internal/placesync"
	"places/internal/session"
	"places/pkg/backend"
	"places/pkg/location"
)

// app carries what every subcommand shares once the configuration is loaded.
type app struct {
	lookup env.LookupFunc
	out    io.Writer
	cfg    *env.Config

	nickname string
	backend  string
	metrics  *placesync.Metrics
}

func newRootCmd(lookup env.LookupFunc, out io.Writer) *cobra.Command {
	a := &app{lookup: lookup, out: out}

	root := &cobra.Command{
		Use:   "places",
		Short: "Keep a personal list of places in sync with the places backend",
		Long: `
places manages the places saved under a nickname on the places backend.
Every command first loads the saved list, then applies its change once the
backend confirmed it.
`,
		SilenceUsage:      true,
		PersistentPreRunE: a.configure,
	}
	root.PersistentFlags().StringVarP(&a.nickname, "nickname", "n", "", "nickname the places belong to (default $PLACES_NICKNAME)")
	root.PersistentFlags().StringVar(&a.backend, "backend", "", "backend base URL (default $PLACES_BACKEND_ADDRESS)")

	root.AddCommand(
		a.listCmd(),
		a.addCmd(),
		a.addCityCmd(),
		a.deleteCmd(),
		a.watchCmd(),
		a.exportCmd(),
	)
	return root
}

func (a *app) configure(_ *cobra.Command, _ []string) error {
	cfg, err := env.FromLookup(a.lookup)
	if err != nil {
		return err
	}
	if a.nickname != "" {
		cfg.Nickname = a.nickname
	}
	if a.backend != "" {
		cfg.BackendAddress = a.backend
	}
	a.cfg = cfg
	return nil
}

func (a *app) geocoder() location.Geocoder {
	if a.cfg.GeocoderProvider == env.GeocoderNominatim {
		return location.NewNominatimGeocoder(a.cfg.GeocoderURL, nil)
	}
	return location.NewAdresseGeocoder(a.cfg.GeocoderURL, nil)
}

// open starts the session and its sync client without contacting the backend.
func (a *app) open() (*session.Session, *placesync.Client, error) {
	sess, err := session.New(a.cfg.Nickname)
	if err != nil {
		return nil, nil, err
	}

	var opts []placesync.Option
	if a.metrics != nil {
		opts = append(opts, placesync.WithMetrics(a.metrics))
	}
	client := placesync.NewClient(backend.NewClient(a.cfg.BackendAddress, nil), a.geocoder(), sess.Places, opts...)
	return sess, client, nil
}

// mount opens the session and loads the saved places. A failed load is only
// logged: the list simply stays empty. Commands that publish the list must
// use open and LoadAll themselves.
func (a *app) mount(ctx context.Context) (*session.Session, *placesync.Client, error) {
	sess, client, err := a.open()
	if err != nil {
		return nil, nil, err
	}
	if err := client.LoadAll(ctx, sess.Nickname); err != nil {
		log.Printf("Could not load places of %s: %v", sess.Nickname, err)
	}
	return sess, client, nil
}
