package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/samirrijal/forestgeo/internal/adapters/geocoder"
	"github.com/samirrijal/forestgeo/internal/core/usecases"
	"github.com/samirrijal/forestgeo/internal/pkg/config"
	"github.com/samirrijal/forestgeo/internal/pkg/geospatial"
)

type options struct {
	strict bool
	region string
}

func newRootCmd(out io.Writer) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "geoctl",
		Short: "convert, validate and geocode DMS coordinates",
		Long: `
	geoctl works on degrees-minutes-seconds values such as 4°36'56.78''.
	Separate negative positional values from the flags with --, for example
	geoctl to-decimal -- "-74°5'0.00''".
	`,
		SilenceUsage: true,
	}
	root.SetOut(out)
	root.PersistentFlags().BoolVar(&opts.strict, "strict", false, "reject minutes or seconds of 60 and above")
	root.PersistentFlags().StringVar(&opts.region, "region", "",
		"region bounds as lat_min,lat_max,lon_min,lon_max (default: Colombia)")

	root.AddCommand(
		newToDecimalCmd(opts),
		newToDMSCmd(),
		newValidateCmd(opts),
		newCheckCmd(opts),
		newDistanceCmd(opts),
		newReverseCmd(),
	)
	return root
}

func (o *options) coordinates() (*usecases.CoordinateService, error) {
	region := geospatial.ColombiaBounds
	if o.region != "" {
		b, err := parseBounds(o.region)
		if err != nil {
			return nil, err
		}
		region = b
	}
	return usecases.NewCoordinateService(region, o.strict), nil
}

func parseBounds(s string) (geospatial.Bounds, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return geospatial.Bounds{}, fmt.Errorf("region: want 4 comma-separated values, got %d", len(parts))
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return geospatial.Bounds{}, fmt.Errorf("region: %q is not a number", p)
		}
		v[i] = f
	}
	b := geospatial.Bounds{LatMin: v[0], LatMax: v[1], LonMin: v[2], LonMax: v[3]}
	if err := b.Validate(); err != nil {
		return geospatial.Bounds{}, fmt.Errorf("region: %w", err)
	}
	return b, nil
}

func newToDecimalCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "to-decimal <dms>",
		Short: "converts a DMS value to decimal degrees",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.coordinates()
			if err != nil {
				return err
			}
			v, err := svc.ToDecimal(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), strconv.FormatFloat(v, 'f', -1, 64))
			return nil
		},
	}
}

func newToDMSCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "to-dms <decimal>",
		Short: "converts decimal degrees to a DMS value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("%q is not a number", args[0])
			}
			dms, err := geospatial.FormatDMS(v)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), dms)
			return nil
		},
	}
}

func newValidateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <dms>",
		Short: "prints whether a DMS value is well formed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.coordinates()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), svc.IsValid(args[0]))
			return nil
		},
	}
}

func newCheckCmd(opts *options) *cobra.Command {
	var lat, lon string
	cmd := &cobra.Command{
		Use:   "check --lat <dms> --lon <dms>",
		Short: "checks a DMS pair against the region",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.coordinates()
			if err != nil {
				return err
			}
			check, err := svc.CheckPoint(lat, lon)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), check)
		},
	}
	cmd.Flags().StringVar(&lat, "lat", "", "latitude in DMS")
	cmd.Flags().StringVar(&lon, "lon", "", "longitude in DMS")
	_ = cmd.MarkFlagRequired("lat")
	_ = cmd.MarkFlagRequired("lon")
	return cmd
}

func newDistanceCmd(opts *options) *cobra.Command {
	var lat1, lon1, lat2, lon2 string
	cmd := &cobra.Command{
		Use:   "distance --lat1 <dms> --lon1 <dms> --lat2 <dms> --lon2 <dms>",
		Short: "prints the great-circle distance between two DMS points",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.coordinates()
			if err != nil {
				return err
			}
			d, err := svc.Distance(lat1, lon1, lat2, lon2)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), d)
		},
	}
	for _, f := range []struct {
		dst  *string
		name string
	}{{&lat1, "lat1"}, {&lon1, "lon1"}, {&lat2, "lat2"}, {&lon2, "lon2"}} {
		cmd.Flags().StringVar(f.dst, f.name, "", f.name+" in DMS")
		_ = cmd.MarkFlagRequired(f.name)
	}
	return cmd
}

func newReverseCmd() *cobra.Command {
	var lat, lon float64
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "reverse --lat <decimal> --lon <decimal>",
		Short: "reverse geocodes a point with the configured provider",
		Long: `
	Reads provider settings the same way the API does (config.yaml and
	FORESTGEO_* variables) and queries the provider directly, without the
	place store or cache.
	`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load("forestgeo-geoctl")
			if err != nil {
				return err
			}
			geo, err := geocoder.New(cfg.Geocoding)
			if err != nil {
				return err
			}
			svc := usecases.NewGeocodingService(geo, nil, nil, nil, usecases.GeocodingOptions{
				Region:           cfg.Region,
				RestrictToRegion: cfg.Geocoding.RestrictToRegion,
			})

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			place, err := svc.Reverse(ctx, lat, lon)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), place)
		},
	}
	cmd.Flags().Float64Var(&lat, "lat", 0, "latitude in decimal degrees")
	cmd.Flags().Float64Var(&lon, "lon", 0, "longitude in decimal degrees")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "request timeout")
	_ = cmd.MarkFlagRequired("lat")
	_ = cmd.MarkFlagRequired("lon")
	return cmd
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
