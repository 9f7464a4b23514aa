package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"places/internal/storage"
)

func (a *app) exportCmd() *cobra.Command {
	var region string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Upload a JSON snapshot of the saved places to object storage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.cfg.MinioEndpoint == "" {
				return errors.New("MINIO_ENDPOINT is not set")
			}
			exporter, err := storage.NewExporter(storage.Options{
				Endpoint:  a.cfg.MinioEndpoint,
				AccessKey: a.cfg.MinioAccessKey,
				SecretKey: a.cfg.MinioSecretKey,
				UseSSL:    a.cfg.MinioUseSSL,
				Bucket:    a.cfg.MinioBucket,
			})
			if err != nil {
				return err
			}

			sess, client, err := a.open()
			if err != nil {
				return err
			}
			// An empty list after a failed load must not replace a good snapshot.
			if err := client.LoadAll(cmd.Context(), sess.Nickname); err != nil {
				return fmt.Errorf("not exporting: %w", err)
			}
			if err := exporter.EnsureBucket(cmd.Context(), region); err != nil {
				return err
			}
			key, err := exporter.Export(cmd.Context(), sess.Nickname, sess.Places.Places())
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Exported %d places to %s/%s\n", sess.Places.Len(), a.cfg.MinioBucket, key)
			return nil
		},
	}
	cmd.Flags().StringVar(&region, "region", "", "region used when the bucket has to be created")
	return cmd
}
