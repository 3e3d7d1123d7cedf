package qnet6

import (
	"bufio"
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/vuuvv/errors"
	"github.com/vuuvv/qnet6/decoder"
	"github.com/vuuvv/qnet6/filter"
	"github.com/vuuvv/qnet6/log"
	"github.com/vuuvv/qnet6/utils"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type ScanResult struct {
	ID          uuid.UUID       `json:"id" yaml:"id"`
	Index       int             `json:"index" yaml:"index"`
	Frame       []byte          `json:"frame,omitempty" yaml:"-"`
	Result      *decoder.Result `json:"-" yaml:"-"`
	Matched     bool            `json:"matched" yaml:"matched"`
	ScanError   error           `json:"scanError,omitempty" yaml:"-"`
	HandleError error           `json:"handleError,omitempty" yaml:"-"`
	Start       time.Time       `json:"start,omitempty" yaml:"-"`
	End         time.Time       `json:"end,omitempty" yaml:"-"`
}

type ScanResultHandler func(result *ScanResult) error

// Codec decodes frames one by one, in batches or from a stream of hex lines,
// keeping the most recent results.
type Codec struct {
	config  *Config
	filter  *filter.Filter
	history *utils.History[ScanResult]
}

func NewCodec(config *Config) (*Codec, error) {
	if config == nil {
		config = DefaultConfig()
	} else if err := config.Setup(); err != nil {
		return nil, errors.WithStack(err)
	}
	codec := &Codec{config: config, history: utils.NewHistory[ScanResult](config.History)}
	if config.Filter != "" {
		f, err := filter.Compile(config.Filter)
		if err != nil {
			return nil, err
		}
		codec.filter = f
	}
	return codec, nil
}

func NewCodecFromBytes(configBytes []byte) (*Codec, error) {
	config, err := NewConfigFromBytes(configBytes)
	if err != nil {
		return nil, err
	}
	return NewCodec(config)
}

func NewCodecFromFile(configFile string) (*Codec, error) {
	config, err := NewConfigFromFile(configFile)
	if err != nil {
		return nil, err
	}
	return NewCodec(config)
}

func (c *Codec) Config() *Config {
	return c.config
}

func (c *Codec) Histories() []*ScanResult {
	return c.history.GetAll()
}

// Decode decodes a single frame and applies the filter. Frames shorter than
// a transport header are reported through ScanError.
func (c *Codec) Decode(index int, frame []byte) *ScanResult {
	result := &ScanResult{ID: uuid.New(), Index: index, Frame: frame, Start: time.Now()}
	defer func() {
		result.End = time.Now()
	}()

	err := utils.CallWithError(func() (err error) {
		result.Result, err = decoder.Decode(frame, c.config.Options())
		return err
	})
	if err != nil {
		result.ScanError = err
		log.Rejected("decode", index, err, zap.Int("size", len(frame)))
		return result
	}
	log.Frame(index, result.Result.Stopped, result.Result.StoppedAt, zap.Stringer("id", result.ID))

	result.Matched = true
	if c.filter != nil {
		result.Matched, err = c.filter.Match(result.Result.ToMap())
		if err != nil {
			result.ScanError = err
			log.Rejected("filter", index, err, zap.Stringer("id", result.ID))
		}
	}
	return result
}

// DecodeAll decodes frames concurrently with at most Config.Workers
// goroutines. Results keep the order of frames. Once ctx is done no new
// frames are started and the context error is returned with the results
// decoded so far; the others are nil.
func (c *Codec) DecodeAll(ctx context.Context, frames [][]byte) ([]*ScanResult, error) {
	results := make([]*ScanResult, len(frames))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.config.Workers)

	for i, frame := range frames {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = c.Decode(i, frame)
			return nil
		})
	}
	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		return results, errors.WithStack(err)
	}
	for _, r := range results {
		c.history.Add(r)
	}
	return results, nil
}

// Scan reads one frame per line from stream, see utils.ParseFrameLine. Blank
// lines and lines starting with # are skipped. A line that does not parse is
// passed to fn with ScanError set.
func (c *Codec) Scan(stream io.Reader, fn ScanResultHandler) error {
	start := time.Now()
	scanner := bufio.NewScanner(stream)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	index, rejected := 0, 0
	for scanner.Scan() {
		line := scanner.Text()
		if utils.IsCommentLine(line) {
			continue
		}
		frame, err := utils.ParseFrameLine(line)
		var result *ScanResult
		if err != nil {
			result = &ScanResult{ID: uuid.New(), Index: index, ScanError: err, Start: time.Now(), End: time.Now()}
			log.Rejected("parse", index, err)
		} else {
			result = c.Decode(index, frame)
		}
		if result.ScanError != nil {
			rejected++
		}
		index++
		c.EmitResult(result, fn)
	}

	if err := scanner.Err(); err != nil {
		return errors.WithStack(err)
	}
	log.Scanned(index, rejected, time.Since(start))
	return nil
}

func (c *Codec) EmitResult(result *ScanResult, fn ScanResultHandler) {
	c.history.Add(result)
	// history 中保存的是指针, handler 的修改对 history 可见
	if err := utils.CallWithError(func() error { return fn(result) }); err != nil {
		result.HandleError = err
	}
}
