// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kominfo-muaraenim/portal/internal/weather"
	"github.com/kominfo-muaraenim/portal/pkg/types"
)

var weatherCmd = &cobra.Command{
	Use:   "weather",
	Short: "Show forecast and air quality for a kecamatan",
	Long: `Weather prints the current BMKG forecast slot, the next slots and the
Open-Meteo air-quality reading for one kecamatan. The forecast and the air
quality are fetched independently; either may fail alone.

Use --list to print the configured kecamatan and --watch to keep polling and
rotate the compact display between temperature and AQI.`,
	RunE: runWeather,
}

func runWeather(cmd *cobra.Command, args []string) error {
	adm4, _ := cmd.Flags().GetString("adm4")
	list, _ := cmd.Flags().GetBool("list")
	watch, _ := cmd.Flags().GetBool("watch")
	asJSON, _ := cmd.Flags().GetBool("json")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := setup(ctx, false)
	if err != nil {
		return err
	}
	defer a.Close()

	locations := a.locations.List(ctx)
	if list {
		for _, k := range locations {
			fmt.Printf("  %-16s  %-24s  %s\n", k.ADM4, k.Kecamatan, k.KelurahanDesa)
		}
		return nil
	}

	var k types.Kecamatan
	if adm4 == "" {
		if len(locations) == 0 {
			return fmt.Errorf("no kecamatan configured")
		}
		k = locations[0]
	} else {
		var ok bool
		if k, ok = weather.Find(locations, adm4); !ok {
			return fmt.Errorf("unknown kecamatan %q (see weather --list)", adm4)
		}
	}

	if !watch {
		r := a.weather.Report(ctx, k)
		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(r)
		}
		printReport(r)
		return nil
	}

	poller := weather.NewPoller(a.weather, k, 0)
	poller.OnUpdate = printReport
	go a.weather.Rotator().Run(ctx, func() (bool, bool) {
		r := poller.Snapshot()
		return r.HasWeather(), r.HasAQI()
	}, func(m weather.Mode) {
		printCompact(poller.Snapshot(), m)
	})
	poller.Run(ctx)
	return nil
}

func printReport(r weather.Report) {
	fmt.Printf("%s, %s (%s)\n", r.Kecamatan.Kecamatan, r.Kecamatan.KelurahanDesa, r.Kecamatan.ADM4)
	switch {
	case r.Current != nil:
		c := r.Current
		fmt.Printf("  Sekarang   %.0f°C  %s  kelembapan %.0f%%  angin %.1f km/j %s\n", c.T, c.WeatherDesc, c.HU, c.WS, c.WD)
		for _, f := range r.Forecast {
			fmt.Printf("  %-16s  %.0f°C  %s\n", f.LocalDatetime, f.T, f.WeatherDesc)
		}
	case r.WeatherError != "":
		fmt.Printf("  Cuaca tidak tersedia: %s\n", r.WeatherError)
	}
	switch {
	case r.AirQuality != nil && r.AQILevel != nil:
		aq := r.AirQuality
		fmt.Printf("  AQI %.0f (%s)  PM2.5 %.1f  PM10 %.1f\n", aq.USAQI, r.AQILevel.Label, aq.PM25, aq.PM10)
	case r.AirQualityError != "":
		fmt.Printf("  Kualitas udara tidak tersedia: %s\n", r.AirQualityError)
	}
}

// printCompact prints the one-line display. The snapshot is taken after the
// mode was chosen, so a half may have been cleared by a reselect in between.
func printCompact(r weather.Report, m weather.Mode) {
	switch {
	case m == weather.ModeTemperature && r.Current != nil:
		fmt.Printf("[%s] %.0f°C %s\n", r.Kecamatan.Kecamatan, r.Current.T, r.Current.WeatherDesc)
	case m == weather.ModeAQI && r.AirQuality != nil && r.AQILevel != nil:
		fmt.Printf("[%s] AQI %.0f %s\n", r.Kecamatan.Kecamatan, r.AirQuality.USAQI, r.AQILevel.Label)
	}
}

func init() {
	weatherCmd.Flags().String("adm4", "", "kecamatan adm4 code (default: first configured)")
	weatherCmd.Flags().Bool("list", false, "list the configured kecamatan")
	weatherCmd.Flags().Bool("watch", false, "keep polling and rotate the compact display")
	weatherCmd.Flags().Bool("json", false, "output the report as JSON")

	rootCmd.AddCommand(weatherCmd)
}
