package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"places/internal/models"
)

func (a *app) printPlaces(places []models.Place) {
	if len(places) == 0 {
		fmt.Fprintln(a.out, "No places saved.")
		return
	}
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tLATITUDE\tLONGITUDE")
	for _, p := range places {
		fmt.Fprintf(w, "%s\t%.3f\t%.3f\n", p.Name, p.Latitude, p.Longitude)
	}
	w.Flush()
}

func (a *app) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print the saved places",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, _, err := a.mount(cmd.Context())
			if err != nil {
				return err
			}
			a.printPlaces(sess.Places.Places())
			return nil
		},
	}
}

func (a *app) addCmd() *cobra.Command {
	var (
		name string
		at   models.Coordinate
	)
	cmd := &cobra.Command{
		Use:     "add",
		Short:   "Save a place at the given coordinates",
		Example: `  places add --name Home --lat=43.2965 --lon=5.3698`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, client, err := a.mount(cmd.Context())
			if err != nil {
				return err
			}
			place, err := client.AddPlace(cmd.Context(), sess.Nickname, name, at)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Saved %s (%.5f, %.5f)\n", place.Name, place.Latitude, place.Longitude)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "place name")
	cmd.Flags().Float64Var(&at.Latitude, "lat", 0, "latitude in degrees")
	cmd.Flags().Float64Var(&at.Longitude, "lon", 0, "longitude in degrees")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("lat")
	_ = cmd.MarkFlagRequired("lon")
	return cmd
}

func (a *app) addCityCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "add-city <city>",
		Short:   "Look a city up and save its best match",
		Example: `  places add-city Lyon`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, client, err := a.mount(cmd.Context())
			if err != nil {
				return err
			}
			place, err := client.AddCity(cmd.Context(), sess.Nickname, strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Saved %s (%.5f, %.5f)\n", place.Name, place.Latitude, place.Longitude)
			return nil
		},
	}
}

func (a *app) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete the places with the given name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, client, err := a.mount(cmd.Context())
			if err != nil {
				return err
			}
			name := strings.Join(args, " ")
			if err := client.DeletePlace(cmd.Context(), sess.Nickname, name); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Deleted %s\n", name)
			return nil
		},
	}
}
