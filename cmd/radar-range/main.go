// Command radar-range evaluates the radar range equation for a fixed
// reference radar and prints the range in metres, rounded to the nearest
// integer. With -remote it asks a running rfcalc-server instead.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/signalsfoundry/rfcalc/internal/calc"
	"github.com/signalsfoundry/rfcalc/internal/logging"
	"github.com/signalsfoundry/rfcalc/rf"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// referenceRadar is a 10 kW, 10 GHz radar with gain 14000 looking at a
// 1 m² target with a 1e-13 W receiver.
var referenceRadar = rf.RadarParams{
	TransmitPower: 10e3,
	Gain:          14e3,
	CrossSection:  1,
	Freq:          10e9,
	Sensitivity:   1e-13,
}

func main() {
	p := referenceRadar
	flag.Float64Var(&p.TransmitPower, "power", p.TransmitPower, "transmitted power in watts")
	flag.Float64Var(&p.Gain, "gain", p.Gain, "antenna gain (linear)")
	flag.Float64Var(&p.CrossSection, "cross-section", p.CrossSection, "target radar cross-section in m²")
	flag.Float64Var(&p.Freq, "freq", p.Freq, "carrier frequency in Hz")
	flag.Float64Var(&p.Sensitivity, "sensitivity", p.Sensitivity, "minimum detectable receive power in watts")
	remote := flag.String("remote", "", "address of an rfcalc-server to evaluate against (local when empty)")
	flag.Parse()

	log := logging.NewFromEnv()
	ctx := context.Background()

	rng, err := evaluate(ctx, p, *remote)
	if err != nil {
		log.Error(ctx, "radar range evaluation failed", logging.Err(err))
		os.Exit(1)
	}

	log.Debug(ctx, "radar range evaluated",
		logging.String("remote", *remote),
		logging.String("range", formatRange(rng)),
	)
	printRange(os.Stdout, rng)
}

func evaluate(ctx context.Context, p rf.RadarParams, remote string) (float64, error) {
	if remote == "" {
		return p.MaxRange()
	}

	conn, err := grpc.NewClient(remote, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return 0, fmt.Errorf("dial %s: %w", remote, err)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return calc.NewClient(conn).RadarMaxRange(ctx, p)
}

func printRange(w io.Writer, meters float64) {
	fmt.Fprintf(w, "%.0f\n", meters)
}

// formatRange renders meters with an SI prefix, e.g. "54.58 km".
func formatRange(meters float64) string {
	return humanize.SIWithDigits(meters, 2, "m")
}
