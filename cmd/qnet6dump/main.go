// Command qnet6dump decodes QNET6 transport frames given as hex, either as
// arguments or one frame per line on stdin.
package main

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/vuuvv/errors"
	"github.com/vuuvv/qnet6"
	"github.com/vuuvv/qnet6/core"
	"github.com/vuuvv/qnet6/decoder"
	"github.com/vuuvv/qnet6/utils"
	"gopkg.in/yaml.v3"
)

type options struct {
	configFile  string
	filter      string
	workers     int
	output      string
	noChecksum  bool
	showSkipped bool
	selfTest    bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "qnet6dump [hex-frame...]",
		Short: "Decode QNET6 transport frames",
		Long: `qnet6dump decodes QNET6 transport frames and prints the decoded tree.
Frames are taken from the arguments or, without arguments, from stdin with
one hex encoded frame per line. Blank lines and lines starting with # are
skipped.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			qnet6.Setup()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			codec, err := newCodec(opts)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			emit := func(r *qnet6.ScanResult) error {
				return printResult(out, r, opts)
			}
			if opts.selfTest {
				args = []string{hex.EncodeToString(selfTestFrame())}
			}
			if len(args) == 0 {
				return codec.Scan(cmd.InOrStdin(), emit)
			}
			return decodeArgs(cmd.Context(), codec, args, emit)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.configFile, "config", "c", "", "YAML config file")
	flags.StringVarP(&opts.filter, "filter", "f", "", "CEL expression over the variable frame, overrides the config")
	flags.IntVarP(&opts.workers, "workers", "w", 0, "decode workers for argument frames, 0 uses the config")
	flags.StringVarP(&opts.output, "output", "o", "text", "output format: text or yaml")
	flags.BoolVar(&opts.noChecksum, "no-checksum", false, "skip checksum validation")
	flags.BoolVar(&opts.showSkipped, "show-skipped", false, "also print frames rejected by the filter")
	flags.BoolVar(&opts.selfTest, "selftest", false, "decode a built-in sample frame")
	return cmd
}

func newCodec(opts *options) (*qnet6.Codec, error) {
	if opts.output != "text" && opts.output != "yaml" {
		return nil, errors.Errorf("unsupported output format %q", opts.output)
	}
	config := &qnet6.Config{}
	if opts.configFile != "" {
		var err error
		if config, err = qnet6.NewConfigFromFile(opts.configFile); err != nil {
			return nil, err
		}
	}
	if opts.filter != "" {
		config.Filter = opts.filter
	}
	if opts.workers > 0 {
		config.Workers = opts.workers
	}
	if opts.noChecksum {
		disabled := false
		config.CheckChecksum = &disabled
	}
	return qnet6.NewCodec(config)
}

func decodeArgs(ctx context.Context, codec *qnet6.Codec, args []string, emit qnet6.ScanResultHandler) error {
	if ctx == nil {
		ctx = context.Background()
	}
	frames := make([][]byte, len(args))
	for i, arg := range args {
		frame, err := utils.ParseFrameLine(arg)
		if err != nil {
			return errors.Wrapf(err, "frame %d", i)
		}
		frames[i] = frame
	}
	results, err := codec.DecodeAll(ctx, frames)
	if err != nil {
		return err
	}
	for _, r := range results {
		codec.EmitResult(r, emit)
		if r.HandleError != nil {
			return r.HandleError
		}
	}
	return nil
}

func printResult(w io.Writer, r *qnet6.ScanResult, opts *options) error {
	if r.ScanError != nil {
		if _, err := fmt.Fprintf(w, "# frame %d: %v\n", r.Index, r.ScanError); err != nil {
			return errors.WithStack(err)
		}
		return nil
	}
	if !r.Matched && !opts.showSkipped {
		return nil
	}

	if opts.output == "yaml" {
		doc := r.Result.ToMap()
		doc["index"] = r.Index
		doc["id"] = r.ID.String()
		doc["matched"] = r.Matched
		enc := yaml.NewEncoder(w)
		defer func() {
			_ = enc.Close()
		}()
		if err := enc.Encode(doc); err != nil {
			return errors.WithStack(err)
		}
		return nil
	}

	if _, err := fmt.Fprintf(w, "# frame %d (%s)\n", r.Index, r.ID); err != nil {
		return errors.WithStack(err)
	}
	return qnet6.Format(w, r.Result, nil)
}

// selfTestFrame is a checksummed send carrying a one record open request.
func selfTestFrame() []byte {
	w := core.NewWriter(binary.LittleEndian).
		U16(uint16(core.KernelSend)).U16(0).
		U32(1).U32(0x1000).
		U32(7).U32(3).U32(10).U32(43).U32(0).U32(0).U32(0).U32(0)
	w.U16(uint16(core.OperationConnect)).
		U16(43).U16(uint16(core.ConnectOpen)).
		U16(0).U16(0).U16(0).
		U32(0).U32(0).U32(0).U32(0o644).
		U16(0).U16(0).U16(0).U16(5).
		U8(0).U8(0).U16(0).
		CString("/tmp")
	if err := w.SetU16(uint16(w.Len()), 2); err != nil {
		panic(err)
	}

	payload := w.Bytes()
	return qnet6.EncodeFrame(qnet6.Header{
		Version: 0x2A,
		Type:    core.TransportUserData,
		Flags:   decoder.FlagFirst | decoder.FlagLast | decoder.FlagChecksum,
		Layer:   core.LayerKernelMessage,
		SessionInfo: decoder.SessionInfo{
			SrcConnID: 1,
			DstConnID: 2,
			SeqNum:    1,
		},
		Length: uint32(len(payload)),
	}, payload)
}
