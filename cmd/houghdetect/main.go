// Command houghdetect runs one Hough detection over an image file and writes
// the annotated image and/or the detections as JSON.
//
//	houghdetect -in frame.jpg -out lanes.png -mode lanes
//	houghdetect -in coins.png -mode circles -min-radius 20 -max-radius 60 -json - -out ""
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"os"
	"time"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog"
	"golang.org/x/term"

	"github.com/ironsheep/hough-tools-mcp/internal/config"
	"github.com/ironsheep/hough-tools-mcp/internal/detection"
	"github.com/ironsheep/hough-tools-mcp/internal/logging"
	"github.com/ironsheep/hough-tools-mcp/internal/render"
)

// pipeName is the file name that indicates stdin/stdout is being used.
const pipeName = "-"

// Version indicates the current build version.
var Version = "dev"

type options struct {
	source      string
	destination string
	jsonOut     string
	gridSpacing int
	params      config.Params
}

func parseFlags(name string, args []string) (*options, error) {
	o := &options{params: config.Defaults()}
	p := &o.params

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.StringVar(&o.source, "in", pipeName, "Source image")
	fs.StringVar(&o.destination, "out", pipeName, "Annotated image; empty for none")
	fs.StringVar(&o.jsonOut, "json", "", "Write the detections as JSON to this file, - for stdout")
	fs.IntVar(&o.gridSpacing, "grid", 0, "Draw a coordinate grid every N pixels")

	mode := fs.String("mode", string(p.Mode), "Detection: lines|segments|circles|lanes")
	orientation := fs.String("orientation", string(p.Orientation), "Camera orientation: auto|landscape|portrait")
	fs.StringVar(&p.EdgeMethod, "edges", p.EdgeMethod, "Edge method: adaptive|threshold|canny|sobel|none")
	fs.StringVar(&p.Region, "roi", p.Region, "Region of interest, e.g. auto, full, bottom-half, right-third")
	fs.Float64Var(&p.BlurRadius, "blur", p.BlurRadius, "Gaussian blur radius before segmentation")
	fs.IntVar(&p.EdgeLevel, "level", p.EdgeLevel, "Cut-off for the threshold and sobel edge methods")

	fs.IntVar(&p.LineThreshold, "threshold", p.LineThreshold, "Minimum votes for a line")
	fs.IntVar(&p.MinLineLength, "min-length", p.MinLineLength, "Shortest segment kept")
	fs.IntVar(&p.MaxLineGap, "max-gap", p.MaxLineGap, "Largest gap inside a segment")
	fs.IntVar(&p.AngleSteps, "angles", p.AngleSteps, "Angle samples")
	fs.StringVar(&p.Convention, "convention", p.Convention, "Origin of rho: centered|corner")

	fs.IntVar(&p.CircleThreshold, "circle-threshold", p.CircleThreshold, "Minimum votes for a circle")
	fs.IntVar(&p.MinRadius, "min-radius", p.MinRadius, "Smallest circle radius")
	fs.IntVar(&p.MaxRadius, "max-radius", p.MaxRadius, "Largest circle radius")
	fs.IntVar(&p.StepRadius, "step-radius", p.StepRadius, "Radius step")
	fs.IntVar(&p.MinDistance, "min-distance", p.MinDistance, "Minimum distance between circle centers")
	fs.StringVar(&p.VoteBounds, "bounds", p.VoteBounds, "Circle vote bounds: upper-left|full-image")
	fs.StringVar(&p.RadiusSuppression, "suppression", p.RadiusSuppression, "Radius suppression: per-layer|across-layers")

	fs.Int64Var(&p.MaxVotes, "max-votes", p.MaxVotes, "Work budget, 0 for unlimited")

	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "houghdetect %s\n\nUsage: houghdetect -in frame.jpg -out annotated.png [options]\n\n", Version)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	p.Mode = config.Mode(*mode)
	p.Orientation = config.Orientation(*orientation)
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if o.gridSpacing < 0 {
		return nil, fmt.Errorf("-grid must be >= 0, got %d", o.gridSpacing)
	}
	if o.destination == pipeName && o.jsonOut == pipeName {
		return nil, errors.New("-out and -json cannot both be stdout")
	}
	if o.destination != "" && o.destination != pipeName {
		if _, err := imaging.FormatFromFilename(o.destination); err != nil {
			return nil, fmt.Errorf("output file type not supported: %w", err)
		}
	}
	return o, nil
}

func isTerminal(f interface{}) bool {
	file, ok := f.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}

func decodeSource(source string, stdin io.Reader) (image.Image, error) {
	if source != pipeName {
		return imaging.Open(source, imaging.AutoOrientation(true))
	}
	if isTerminal(stdin) {
		return nil, errors.New("`-` should be used with a pipe for stdin")
	}
	return imaging.Decode(stdin, imaging.AutoOrientation(true))
}

func run(o *options, stdin io.Reader, stdout io.Writer, log zerolog.Logger) error {
	start := time.Now()

	src, err := decodeSource(o.source, stdin)
	if err != nil {
		return fmt.Errorf("reading source: %w", err)
	}
	res, frame, err := detection.Run(src, o.params)
	if err != nil {
		return fmt.Errorf("detection: %w", err)
	}
	log.Info().
		Str("mode", string(res.Mode)).
		Int("detections", res.Count()).
		Int("edge_pixels", frame.Edges.Count()).
		Dur("elapsed", time.Since(start)).
		Msg("detection finished")

	if o.destination != "" {
		style := render.DefaultStyle()
		style.GridSpacing = o.gridSpacing
		annotated, err := render.Overlay(src, render.FromResult(res), style)
		if err != nil {
			return err
		}
		if o.destination == pipeName {
			if isTerminal(stdout) {
				return errors.New("`-` should be used with a pipe for stdout")
			}
			if err := imaging.Encode(stdout, annotated, imaging.PNG); err != nil {
				return fmt.Errorf("encoding output image: %w", err)
			}
		} else if err := imaging.Save(annotated, o.destination); err != nil {
			return fmt.Errorf("saving output image: %w", err)
		}
	}

	switch o.jsonOut {
	case "":
	case pipeName:
		return writeJSON(stdout, res)
	default:
		f, err := os.Create(o.jsonOut)
		if err != nil {
			return fmt.Errorf("could not create the json file: %w", err)
		}
		defer f.Close()
		return writeJSON(f, res)
	}
	return nil
}

func writeJSON(w io.Writer, res *detection.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return fmt.Errorf("encoding json: %w", err)
	}
	return nil
}

func main() {
	log := logging.Component(logging.FromEnv(), "houghdetect")

	o, err := parseFlags(os.Args[0], os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		log.Fatal().Err(err).Msg("invalid arguments")
	}
	if err := run(o, os.Stdin, os.Stdout, log); err != nil {
		log.Fatal().Err(err).Msg("houghdetect failed")
	}
}
