package main

import (
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"text/tabwriter"

	"github.com/bodgit/frames"
	"github.com/urfave/cli/v2"
)

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func loadConfig(c *cli.Context) (frames.Config, error) {
	cfg := frames.DefaultConfig()
	if file := c.String("config"); file != "" {
		var err error
		if cfg, err = frames.LoadConfig(file); err != nil {
			return cfg, err
		}
	}

	if c.IsSet("source") {
		cfg.Source = c.String("source")
	}
	if c.IsSet("output") {
		cfg.Output = c.String("output")
	}
	if c.IsSet("size") {
		cfg.Size = c.Int("size")
	}
	if c.IsSet("height") {
		cfg.Height = c.Int("height")
	}
	if c.IsSet("colors") {
		cfg.Colors = c.Int("colors")
	}

	return cfg, cfg.Validate()
}

func extract(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	logger := log.New(c.App.Writer, "", 0)
	if c.Bool("quiet") {
		logger.SetOutput(ioutil.Discard)
	}

	var opts []frames.Option
	if file := c.String("catalog"); file != "" {
		catalog, err := frames.NewCatalog(file)
		if err != nil {
			return cli.NewExitError(err, 1)
		}
		defer catalog.Close()
		opts = append(opts, frames.WithRecorder(catalog))
	}

	e, err := frames.New(cfg, logger, opts...)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	if _, err := e.Run(); err != nil {
		return cli.NewExitError(err, 1)
	}

	return nil
}

func plan(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	w := tabwriter.NewWriter(c.App.Writer, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "INDEX\tRECT\tWIDTH\tWALK\tIDLE")
	for _, p := range cfg.Plan() {
		fmt.Fprintf(w, "%d\t%v\t%d\t%s\t%s\n", p.Region.Index, p.Rect, p.Region.Width(), p.Walk, p.Idle)
	}
	return w.Flush()
}

func newApp() *cli.App {
	app := cli.NewApp()

	app.Name = "frames"
	app.Usage = "Sprite sheet frame extraction utility"
	app.Version = "1.0.0"

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			EnvVars: []string{"FRAMES_CONFIG"},
			Usage:   "path to YAML configuration",
		},
		&cli.StringFlag{
			Name:  "source",
			Value: frames.DefaultSource,
			Usage: "path to sprite sheet",
		},
		&cli.StringFlag{
			Name:  "output",
			Value: frames.DefaultOutput,
			Usage: "destination directory",
		},
		&cli.IntFlag{
			Name:  "size",
			Value: frames.DefaultSize,
			Usage: "side length of each output frame",
		},
		&cli.IntFlag{
			Name:  "height",
			Value: frames.DefaultHeight,
			Usage: "height of each crop taken from the sprite sheet",
		},
		&cli.IntFlag{
			Name:  "colors",
			Usage: "reduce each frame to at most this many colors, 0 to disable",
		},
		&cli.StringFlag{
			Name:    "catalog",
			EnvVars: []string{"FRAMES_CATALOG"},
			Usage:   "record written frames in this database",
		},
		&cli.BoolFlag{
			Name:    "quiet",
			Aliases: []string{"q"},
			Usage:   "suppress progress output",
		},
	}

	app.Action = extract

	app.Commands = []*cli.Command{
		{
			Name:        "extract",
			Usage:       "Extract frames from the sprite sheet",
			Description: "Crop every region from the sprite sheet, resize it and write it as both a walk and an idle frame. This is the default when no command is given.",
			Action:      extract,
		},
		{
			Name:        "plan",
			Usage:       "Print the frames that would be extracted",
			Description: "List each region with its crop rectangle and output filenames without reading the sprite sheet or writing anything.",
			Action:      plan,
		},
	}

	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
