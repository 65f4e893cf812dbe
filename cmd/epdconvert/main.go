// Command epdconvert converts image files into frames for 13.3" 6-color
// e-paper panels.
//
// For every input it writes the dithered image as <name>.png and the packed
// panel frame as <name>.bin, ready to be sent with Dev.Write. With -preview it
// also writes <name>_preview.png, the portrait image the panel will show.
// -write-config saves the settings in effect as YAML for later use with
// -config.
package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/flavioheleno/epd13in3e"
	"github.com/flavioheleno/epd13in3e/dither"
	"github.com/flavioheleno/epd13in3e/image6c"
	"github.com/flavioheleno/epd13in3e/internal/canvas"
	"github.com/flavioheleno/epd13in3e/internal/config"
)

func main() {
	var (
		outDir     = flag.String("out", ".", "output directory")
		preview    = flag.Bool("preview", false, "also write the rotated panel preview")
		configPath = flag.String("config", "", "path to config.yaml")
		writeCfg   = flag.String("write-config", "", "write the effective configuration to this path")
		verbose    = flag.Bool("v", false, "debug logging")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] image...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	cfg := config.Default()
	if *configPath != "" {
		c, err := config.Load(*configPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", *configPath).Msg("config load failed")
		}
		cfg = c
		if cfg.OutDir != "" {
			*outDir = cfg.OutDir
		}
		*preview = *preview || cfg.Preview
	}

	if *writeCfg != "" {
		if err := writeConfig(*writeCfg, cfg, *outDir, *preview); err != nil {
			log.Fatal().Err(err).Str("path", *writeCfg).Msg("config save failed")
		}
		log.Info().Str("path", *writeCfg).Msg("config written")
		if flag.NArg() == 0 {
			return
		}
	}

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	if err := os.MkdirAll(*outDir, 0755); err != nil {
		log.Fatal().Err(err).Str("dir", *outDir).Msg("cannot create output directory")
	}

	failed := 0
	for _, in := range flag.Args() {
		if err := convert(in, *outDir, *preview); err != nil {
			log.Error().Err(err).Str("in", in).Msg("conversion failed")
			failed++
		}
	}
	if failed > 0 {
		os.Exit(1)
	}
}

func convert(in, outDir string, preview bool) error {
	start := time.Now()
	src, format, err := decode(in)
	if err != nil {
		return err
	}
	log.Debug().Str("in", in).Str("format", format).Stringer("size", src.Bounds().Size()).Msg("decoded")

	p := image6c.DefaultPalette
	dithered := dither.Paletted(canvas.Fit(src), p)
	frame := epd13in3e.Pack(dithered, p)

	base := filepath.Join(outDir, strings.TrimSuffix(filepath.Base(in), filepath.Ext(in)))
	if err := writePNG(base+".png", dithered); err != nil {
		return err
	}
	if err := os.WriteFile(base+".bin", frame, 0644); err != nil {
		return err
	}
	if preview {
		img, err := epd13in3e.Preview(frame, p)
		if err != nil {
			return err
		}
		if err := writePNG(base+"_preview.png", img); err != nil {
			return err
		}
	}

	log.Info().Str("in", in).Str("out", base+".bin").Dur("took", time.Since(start)).Msg("converted")
	return nil
}

// writeConfig saves cfg with the output settings in effect, so later runs
// can start from it with -config.
func writeConfig(path string, cfg *config.Config, outDir string, preview bool) error {
	c := *cfg
	c.OutDir = outDir
	c.Preview = preview
	return config.Save(path, &c)
}

func decode(path string) (image.Image, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if errors.Is(err, image.ErrFormat) {
		return nil, "", fmt.Errorf("%s: unsupported image format", path)
	}
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", path, err)
	}
	return img, format, nil
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
