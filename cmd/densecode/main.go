package main

import (
	"bytes"
	"crypto/sha1"
	"fmt"
	"io"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"

	"github.com/bodgit/densecode"
	"github.com/bodgit/densecode/layout"
	"github.com/bodgit/densecode/palette"
	"github.com/urfave/cli/v2"
)

const stdio = "-"

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(ioutil.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

func newCodec(c *cli.Context) *densecode.Codec {
	codec := densecode.New(newLogger(c))
	codec.Threshold = c.Float64("threshold")
	codec.MaxSide = c.Int("max-side")
	codec.Denoise = c.Bool("denoise")
	codec.Calibrate = c.Bool("calibrate")
	return codec
}

// openCatalog returns nil if no database was given.
func openCatalog(c *cli.Context) (*densecode.Catalog, error) {
	if c.String("db") == "" {
		return nil, nil
	}
	return densecode.OpenCatalog(c.String("db"))
}

func readInput(name string) ([]byte, error) {
	if name == stdio {
		return ioutil.ReadAll(os.Stdin)
	}
	return ioutil.ReadFile(name)
}

func writeOutput(name string, b []byte) error {
	if name == stdio {
		_, err := os.Stdout.Write(b)
		return err
	}
	return ioutil.WriteFile(name, b, 0666)
}

func openInput(name string) (io.ReadCloser, error) {
	if name == stdio {
		return ioutil.NopCloser(os.Stdin), nil
	}
	return os.Open(name)
}

func exit(err error) error {
	return cli.Exit(err, densecode.ExitCode(err))
}

func encode(c *cli.Context) error {
	if c.NArg() < 2 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	input, output := c.Args().Get(0), c.Args().Get(1)

	f := densecode.PNG
	if output != stdio {
		var err error
		if f, err = densecode.FormatFromPath(output); err != nil {
			return exit(err)
		}
	}

	b, err := readInput(input)
	if err != nil {
		return exit(err)
	}

	codec := newCodec(c)
	codec.Compress = !c.Bool("no-compress")

	m, info, err := codec.Encode(b)
	if err != nil {
		return exit(err)
	}

	buf := new(bytes.Buffer)
	if err := densecode.WriteImage(buf, m, f); err != nil {
		return exit(err)
	}

	cat, err := openCatalog(c)
	if err != nil {
		return exit(err)
	}
	if cat != nil {
		defer cat.Close()
		if _, err := cat.Record(filepath.Base(input), fmt.Sprintf("%X", sha1.Sum(buf.Bytes())), info); err != nil {
			return exit(err)
		}
	}

	if err := writeOutput(output, buf.Bytes()); err != nil {
		return exit(err)
	}

	return nil
}

func decode(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	output := stdio
	if c.NArg() > 1 {
		output = c.Args().Get(1)
	}

	r, err := openInput(c.Args().First())
	if err != nil {
		return exit(err)
	}
	defer r.Close()

	codec := newCodec(c)

	m, sum, err := codec.ReadImage(r)
	if err != nil {
		return exit(err)
	}

	cat, err := openCatalog(c)
	if err != nil {
		return exit(err)
	}
	if cat != nil {
		defer cat.Close()
		switch e, err := cat.FindBySHA1(sum); {
		case err != nil:
			return exit(err)
		case e != nil:
			codec.Logger().Printf("Catalogue: image of \"%s\"\n", e.Name)
		}
	}

	b, err := codec.Decode(m)
	if err != nil {
		return exit(err)
	}

	if err := writeOutput(output, b); err != nil {
		return exit(err)
	}

	return nil
}

func info(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	r, err := openInput(c.Args().First())
	if err != nil {
		return exit(err)
	}
	defer r.Close()

	codec := newCodec(c)

	m, sum, err := codec.ReadImage(r)
	if err != nil {
		return exit(err)
	}

	i, err := codec.Inspect(m)
	if err != nil {
		return exit(err)
	}

	fmt.Printf("Resolution:      %dx%d pixels\n", i.Width, i.Height)
	fmt.Printf("Grid:            %dx%d cells\n", i.Side, i.Side)
	fmt.Printf("Cell size:       %.2f pixels\n", i.Pitch)
	fmt.Printf("Data cells:      %d\n", i.DataCells)
	fmt.Printf("Capacity:        %d bytes\n", i.Capacity())
	fmt.Printf("Original size:   %d bytes\n", i.OriginalSize)
	fmt.Printf("Payload size:    %d bytes\n", i.CompressedSize)
	fmt.Printf("Compressed:      %t\n", i.Compressed())
	fmt.Printf("CRC-32:          %08x\n", i.CRC)
	fmt.Printf("Used:            %.1f%%\n", 100*i.Used())
	fmt.Printf("Efficiency:      %.2f bits/cell\n", i.Efficiency())

	cat, err := openCatalog(c)
	if err != nil {
		return exit(err)
	}
	if cat != nil {
		defer cat.Close()
		e, err := cat.FindBySHA1(sum)
		if err != nil {
			return exit(err)
		}
		if e != nil {
			fmt.Printf("Source:          %s\n", e.Name)
		}
	}

	return nil
}

func batch(c *cli.Context) error {
	if c.NArg() < 2 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	f, err := densecode.FormatFromPath("." + c.String("format"))
	if err != nil {
		return exit(err)
	}

	codec := newCodec(c)
	codec.Compress = !c.Bool("no-compress")

	results, err := codec.EncodeTree(c.Args().Get(0), c.Args().Get(1), f)
	if err != nil {
		return exit(err)
	}

	cat, err := openCatalog(c)
	if err != nil {
		return exit(err)
	}
	if cat != nil {
		defer cat.Close()
		for _, r := range results {
			if _, err := cat.Record(filepath.Base(r.Source), r.SHA1, r.Info); err != nil {
				return exit(err)
			}
		}
	}

	return nil
}

func list(c *cli.Context) error {
	cat, err := openCatalog(c)
	if err != nil {
		return exit(err)
	}
	if cat == nil {
		return cli.Exit("no database given", 1)
	}
	defer cat.Close()

	entries, err := cat.List()
	if err != nil {
		return exit(err)
	}

	for _, e := range entries {
		fmt.Printf("%s %08x %4dx%-4d %10d %s\n", e.SHA1, e.Info.CRC, e.Info.Side, e.Info.Side, e.Info.OriginalSize, e.Name)
	}

	return nil
}

func main() {
	app := cli.NewApp()

	app.Name = "densecode"
	app.Usage = "Store data as a dense colour grid image"
	app.Version = "1.0.0"

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"DENSECODE_DB"},
			Usage:   "path to catalogue database",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
		&cli.Float64Flag{
			Name:  "threshold",
			Value: palette.DefaultThreshold,
			Usage: "maximum colour distance when reading a cell",
		},
		&cli.IntFlag{
			Name:  "max-side",
			Value: layout.DefaultMaxSide,
			Usage: "largest grid side in cells",
		},
		&cli.BoolFlag{
			Name:  "denoise",
			Usage: "median filter images before reading",
		},
		&cli.BoolFlag{
			Name:  "calibrate",
			Usage: "adjust the palette to the image before reading",
		},
	}

	noCompress := &cli.BoolFlag{
		Name:  "no-compress",
		Usage: "store the data uncompressed",
	}

	app.Commands = []*cli.Command{
		{
			Name:        "encode",
			Usage:       "Encode a file as an image",
			Description: "The image format is taken from the output extension, PNG when writing to standard output.",
			ArgsUsage:   "INPUT|- OUTPUT|-",
			Flags:       []cli.Flag{noCompress},
			Action:      encode,
		},
		{
			Name:      "decode",
			Usage:     "Decode an image back to a file",
			ArgsUsage: "INPUT|- [OUTPUT|-]",
			Action:    decode,
		},
		{
			Name:      "info",
			Usage:     "Show the geometry and header of an image",
			ArgsUsage: "IMAGE",
			Action:    info,
		},
		{
			Name:        "batch",
			Usage:       "Encode every file in a directory",
			Description: "Hidden files and directories are skipped.",
			ArgsUsage:   "DIRECTORY OUTPUT",
			Flags: []cli.Flag{
				noCompress,
				&cli.StringFlag{
					Name:  "format",
					Value: densecode.PNG.String(),
					Usage: "image format, one of png, bmp or tiff",
				},
			},
			Action: batch,
		},
		{
			Name:   "list",
			Usage:  "List the images recorded in the catalogue",
			Action: list,
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
