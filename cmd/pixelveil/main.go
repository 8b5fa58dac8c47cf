package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"unicode/utf8"

	"github.com/fatih/color"

	"pixelveil/pkg/dct"
	"pixelveil/pkg/lsb"
	"pixelveil/pkg/pixels"
	"pixelveil/pkg/search"
	"pixelveil/pkg/textscore"
)

var (
	infoColor    = color.New(color.FgBlue).SprintFunc()
	successColor = color.New(color.FgGreen).SprintFunc()
	warningColor = color.New(color.FgYellow).SprintFunc()
	errorColor   = color.New(color.FgRed).SprintFunc()
)

func printInfo(format string, args ...interface{}) {
	fmt.Printf("%s %s\n", infoColor("[*]"), fmt.Sprintf(format, args...))
}

func printSuccess(format string, args ...interface{}) {
	fmt.Printf("%s %s\n", successColor("[+]"), fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...interface{}) {
	fmt.Printf("%s %s\n", warningColor("[!]"), fmt.Sprintf(format, args...))
}

func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "%s %s\n", errorColor("[-]"), fmt.Sprintf(format, args...))
}

func fatal(format string, args ...interface{}) {
	printError(format, args...)
	os.Exit(1)
}

func main() {
	var (
		encodeFlag = flag.Bool("encode", false, "Embed a message into an image")
		decodeFlag = flag.Bool("decode", false, "Extract a message with known parameters")
		scanFlag   = flag.Bool("scan", false, "Blind-scan an image for hidden text")

		inPath  = flag.String("in", "", "Input image (png, jpeg, gif, bmp, tiff)")
		outPath = flag.String("out", "", "Output PNG for -encode")
		message = flag.String("msg", "", "Message text for -encode")

		bits     = flag.Int("bits", 1, "Bits per channel, 1-8")
		channels = flag.String("channels", "RGB", "Carrier channels, a subset of RGB")
		order    = flag.String("order", "row", "Pixel traversal order: row or column")
		encoding = flag.String("encoding", "utf8", "Text interpretation: utf8 or ascii")
		fill     = flag.Bool("fill", false, "Pad remaining capacity with zero bits on encode")

		useDCT = flag.Bool("dct", false, "Use the DCT/QIM codec instead of raw LSB")
		step   = flag.Float64("step", 50, "QIM quantization step for -dct")

		quick      = flag.Bool("quick", false, "Scan the reduced 1-2 bit grid only")
		configPath = flag.String("config", "", "YAML scan options file")
		dictDir    = flag.String("dict", "", "Directory of <lang>.txt wordlists for ranking")
		topN       = flag.Int("top", 10, "Number of scan candidates to show")
	)
	flag.Parse()

	switch {
	case *encodeFlag:
		runEncode(*inPath, *outPath, *message, *bits, *channels, *order, *fill, *useDCT, *step)
	case *decodeFlag:
		runDecode(*inPath, *bits, *channels, *order, *encoding, *useDCT, *step)
	case *scanFlag:
		runScan(*inPath, *quick, *configPath, *dictDir, *topN)
	default:
		fmt.Println("Usage:")
		fmt.Println("  pixelveil -encode -in cover.png -out stego.png -msg \"text\" [-bits N -channels RGB -order row -fill | -dct -step 50]")
		fmt.Println("  pixelveil -decode -in stego.png [-bits N -channels RGB -order row -encoding utf8 | -dct -step 50]")
		fmt.Println("  pixelveil -scan -in suspect.png [-quick] [-config scan.yaml] [-dict wordlists/] [-top 10]")
		flag.PrintDefaults()
		os.Exit(1)
	}
}

func channelConfig(bits int, channels, order string, fill bool) lsb.Config {
	ord, err := lsb.ParseOrder(order)
	if err != nil {
		fatal("%v", err)
	}
	upper := strings.ToUpper(channels)
	cfg := lsb.Config{
		BitsPerChannel: bits,
		UseR:           strings.Contains(upper, "R"),
		UseG:           strings.Contains(upper, "G"),
		UseB:           strings.Contains(upper, "B"),
		Order:          ord,
		FillWithZeros:  fill,
	}
	if err := cfg.Validate(); err != nil {
		fatal("%v", err)
	}
	return cfg
}

func loadImage(path string) *pixels.Buffer {
	if path == "" {
		fatal("-in is required")
	}
	buf, err := pixels.Load(path)
	if err != nil {
		fatal("failed to load %s: %v", path, err)
	}
	return buf
}

func runEncode(in, out, msg string, bits int, channels, order string, fill, useDCT bool, step float64) {
	if out == "" {
		fatal("-out is required for -encode")
	}
	if msg == "" {
		fatal("-msg is required for -encode")
	}
	buf := loadImage(in)

	var stego *pixels.Buffer
	var err error
	if useDCT {
		params := dct.DefaultParams()
		params.Step = step
		printInfo("Embedding %d bytes via DCT/QIM (step=%.0f) into %d blocks",
			len(msg), step, dct.BlockCapacity(buf.Width, buf.Height))
		stego, err = dct.Encode(buf, []byte(msg), params)
	} else {
		cfg := channelConfig(bits, channels, order, fill)
		printInfo("Embedding %d bytes via LSB (%s, %d bit/channel, %s order), capacity %d bits",
			len(msg), cfg.ChannelString(), cfg.BitsPerChannel, cfg.Order,
			lsb.Capacity(buf.Width, buf.Height, cfg))
		stego, err = lsb.Encode(buf, []byte(msg), cfg)
	}
	if err != nil {
		fatal("encode failed: %v", err)
	}

	if err := stego.SavePNG(out); err != nil {
		fatal("failed to write %s: %v", out, err)
	}
	printSuccess("Wrote %s", out)
}

func runDecode(in string, bits int, channels, order, encoding string, useDCT bool, step float64) {
	buf := loadImage(in)

	if useDCT {
		params := dct.DefaultParams()
		params.Step = step
		res := dct.Decode(buf, params)
		if !res.Found {
			printWarning("No DCT-embedded message found")
			os.Exit(1)
		}
		printSuccess("Recovered %d bytes:", len(res.Message))
		fmt.Println(string(res.Message))
		return
	}

	cfg := channelConfig(bits, channels, order, false)
	mode, err := textscore.ParseMode(encoding)
	if err != nil {
		fatal("%v", err)
	}
	payload, err := lsb.Decode(buf, cfg)
	if err != nil {
		fatal("decode failed: %v", err)
	}
	rendered := textscore.Render(payload, mode)
	printSuccess("Decoded %d bytes (%s):", len(payload.Bytes), mode)
	fmt.Println(rendered.Text)
}

func runScan(in string, quick bool, configPath, dictDir string, topN int) {
	buf := loadImage(in)

	opts := search.DefaultOptions()
	if quick {
		opts = search.QuickOptions()
	}
	if configPath != "" {
		loaded, err := search.LoadOptions(configPath)
		if err != nil {
			fatal("%v", err)
		}
		opts = loaded
	}
	opts.TopN = topN

	var dict textscore.Dictionary
	if dictDir != "" {
		var err error
		dict, err = textscore.SharedDictionary(textscore.DirLoader(dictDir))
		if err != nil {
			fatal("failed to load wordlists: %v", err)
		}
		printInfo("Loaded wordlists for %d language(s)", len(dict))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine := search.New(opts, dict)
	engine.OnProgress = func(current, total int, percent float64) {
		fmt.Printf("\r%s scanning %d/%d (%.0f%%)   ", infoColor("[*]"), current, total, percent)
	}

	candidates, err := engine.Run(ctx, buf)
	fmt.Println()
	if err != nil {
		if ctx.Err() != nil {
			printWarning("Scan cancelled")
			os.Exit(130)
		}
		fatal("scan failed: %v", err)
	}

	if len(candidates) == 0 {
		printWarning("No candidates produced")
		return
	}

	printSuccess("Top %d candidate(s):", len(candidates))
	for i, c := range candidates {
		line := fmt.Sprintf("#%-2d %-45s prob=%.3f quality=%5.1f heur=%5.1f", i+1, c.Params, c.Probabilistic, c.Quality, c.Heuristic)
		if c.DictScore > 0 {
			line += fmt.Sprintf(" dict=%s:%.3f", c.DictLanguage, c.DictScore)
		}
		if c.Probabilistic >= textscore.IsTextThreshold {
			fmt.Println(successColor(line))
		} else {
			fmt.Println(line)
		}
		fmt.Printf("    %s\n", preview(c.Text, 96))
	}
}

func preview(s string, n int) string {
	s = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' || r == '\t' {
			return ' '
		}
		return r
	}, s)
	if len(s) > n {
		// Back up to a rune boundary so the cut never emits a broken
		// multi-byte sequence.
		cut := n
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		return s[:cut] + "..."
	}
	return s
}
