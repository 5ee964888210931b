// Package main is the entry point for the binasc CLI
package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/james-see/binasc/pkg/api"
	"github.com/james-see/binasc/pkg/binasc"
	"github.com/james-see/binasc/pkg/inspect"
	"github.com/james-see/binasc/pkg/tui"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	outputFile string
	verbose    bool
	serverPort int

	parseMIDI   bool
	showHex     bool
	showComment bool
	checkMIDI   bool
	lineLength  int
	lineBytes   int
)

var log = logrus.New()

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "binasc",
	Short: "Convert between binary files and an editable text form",
	Long: `binasc converts binary files, Standard MIDI Files in particular, into
a line oriented text form and compiles that text back into bytes.

Text words: hex bytes (4d), binary (0100,1101), decimals ('77, 2'1000,
4u'-3, '1.5), characters (+M), quoted strings ("MThd"), MIDI variable
length values (v200), tempo (t120) and pitch bend (p-0.5). Comments
start with ; # or /.

Examples:
  binasc decode song.mid --midi --comments -o song.txt
  binasc encode song.txt -o song.mid
  binasc decode firmware.bin --comments
  binasc convert song.mid
  binasc info song.mid
  binasc tui
  binasc serve --port 8080`,
	Version:      fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.SetOutput(cmd.ErrOrStderr())
		if verbose {
			log.SetLevel(logrus.DebugLevel)
		} else {
			log.SetLevel(logrus.InfoLevel)
		}
	},
}

var encodeCmd = &cobra.Command{
	Use:   "encode <input.txt|->",
	Short: "Compile text into bytes",
	Args:  cobra.ExactArgs(1),
	RunE:  runEncode,
}

var decodeCmd = &cobra.Command{
	Use:   "decode <input|->",
	Short: "Dump bytes as text",
	Long: `Dump a file as text. With --midi the file is read as a Standard MIDI
File and each event gets its own line. Otherwise bytes are printed as
hex, hex with an ASCII comment line (--comments), or as printable words
only (--hex=false).`,
	Args: cobra.ExactArgs(1),
	RunE: runDecode,
}

var convertCmd = &cobra.Command{
	Use:   "convert <input>",
	Short: "Auto-detect the input format and convert it",
	Long: `Detects whether the input is a MIDI file, text or other binary data and
converts it the other way. Without -o the output sits next to the input
with a .txt or .bin extension.`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

var infoCmd = &cobra.Command{
	Use:   "info <input.mid>",
	Short: "Summarize a MIDI file",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive terminal UI",
	RunE:  runTUI,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	RunE:  runServe,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	encodeCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file path (default: stdout)")

	decodeCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file path (default: stdout)")
	decodeCmd.Flags().BoolVarP(&parseMIDI, "midi", "m", false, "Decode as a Standard MIDI File")
	decodeCmd.Flags().BoolVar(&showHex, "hex", true, "Print hex bytes; false prints printable text only")
	decodeCmd.Flags().BoolVarP(&showComment, "comments", "c", false, "Add comments to the output")
	decodeCmd.Flags().IntVar(&lineLength, "line-length", binasc.DefaultLineLength, "Maximum line length of text output")
	decodeCmd.Flags().IntVar(&lineBytes, "line-bytes", binasc.DefaultLineBytes, "Bytes per line of hex output")
	decodeCmd.Flags().BoolVar(&checkMIDI, "check", false, "Cross-check MIDI structure with gomidi")

	convertCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file path")

	serveCmd.Flags().IntVarP(&serverPort, "port", "p", 8080, "Server port")

	rootCmd.AddCommand(encodeCmd)
	rootCmd.AddCommand(decodeCmd)
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(serveCmd)
}

func readInput(cmd *cobra.Command, input string) ([]byte, error) {
	if input == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(input)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}
	return data, nil
}

// writeOutput writes to --output when given, stdout otherwise
func writeOutput(cmd *cobra.Command, data []byte) error {
	if outputFile == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(outputFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

func newCodec() *binasc.Codec {
	codec := binasc.NewWithOptions(binasc.Options{
		ShowHexBytes:  showHex,
		ShowComments:  showComment,
		ParseAsMIDI:   parseMIDI,
		MaxLineLength: lineLength,
		MaxLineBytes:  lineBytes,
	})
	codec.SetLogger(log)
	return codec
}

func runEncode(cmd *cobra.Command, args []string) error {
	data, err := readInput(cmd, args[0])
	if err != nil {
		return err
	}

	codec := binasc.New()
	codec.SetLogger(log)
	out, encErr := codec.EncodeString(string(data))

	// bytes before a bad token are still written
	if err := writeOutput(cmd, out); err != nil {
		return err
	}
	if encErr != nil {
		return encErr
	}
	log.WithField("bytes", len(out)).Debug("encoded")
	return nil
}

func runDecode(cmd *cobra.Command, args []string) error {
	data, err := readInput(cmd, args[0])
	if err != nil {
		return err
	}

	codec := newCodec()
	var buf bytes.Buffer
	if codec.MIDI() {
		var structure *binasc.FileSummary
		structure, err = codec.DecodeMIDI(&buf, bytes.NewReader(data))
		if err == nil && checkMIDI {
			crossCheck(data, structure)
		}
	} else {
		err = codec.Decode(&buf, bytes.NewReader(data))
	}

	if werr := writeOutput(cmd, buf.Bytes()); werr != nil {
		return werr
	}
	return err
}

// crossCheck logs where gomidi disagrees with the structural decoder
func crossCheck(data []byte, structure *binasc.FileSummary) {
	sum, err := inspect.Inspect(data)
	if err != nil {
		log.WithError(err).Warn("gomidi could not read file")
		return
	}
	for _, diff := range sum.Compare(structure) {
		log.Warn(diff)
	}
}

func runConvert(cmd *cobra.Command, args []string) error {
	input := args[0]
	output := outputFile
	if output == "" {
		data, err := os.ReadFile(input)
		if err != nil {
			return fmt.Errorf("failed to read input file: %w", err)
		}
		from := binasc.DetectFormatFromContent(data)
		if from == binasc.FormatUnknown {
			from = binasc.DetectFormat(input)
		}
		output = strings.TrimSuffix(input, filepath.Ext(input)) + binasc.OutputExtension(from)
		if output == input {
			return fmt.Errorf("output would overwrite %s, use -o", input)
		}
	}

	codec := binasc.New()
	codec.SetComments(true)
	codec.SetLogger(log)

	fmt.Fprintf(cmd.ErrOrStderr(), "Converting %s -> %s\n", input, output)
	if err := codec.ConvertFile(input, output); err != nil {
		return err
	}
	fmt.Fprintln(cmd.ErrOrStderr(), "Conversion complete!")
	return nil
}

func runInfo(cmd *cobra.Command, args []string) error {
	data, err := readInput(cmd, args[0])
	if err != nil {
		return err
	}

	codec := binasc.New()
	codec.SetMIDI(true)
	codec.SetLogger(log)
	structure, err := codec.DecodeMIDI(io.Discard, bytes.NewReader(data))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	sum, err := inspect.Inspect(data)
	if err != nil {
		log.WithError(err).Warn("gomidi could not read file")
		fmt.Fprintf(out, "Format:   %d (%s)\nTracks:   %d\n",
			structure.Header.Format, structure.Header.FormatName(), len(structure.Tracks))
	} else {
		fmt.Fprint(out, sum.String())
		for _, diff := range sum.Compare(structure) {
			log.Warn(diff)
		}
	}

	for _, t := range structure.Tracks {
		if t.Mismatch() {
			fmt.Fprintf(out, "Track %d declares %d bytes but its events use %d\n", t.Index, t.Declared, t.Actual)
		}
	}
	return nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	return tui.Run()
}

func runServe(cmd *cobra.Command, args []string) error {
	log.Infof("Starting API server on port %d", serverPort)
	log.Infof("Swagger docs available at http://localhost:%d/swagger/index.html", serverPort)
	return api.StartServer(serverPort, log)
}
