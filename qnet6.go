package qnet6

import (
	"github.com/vuuvv/qnet6/core"
	"github.com/vuuvv/qnet6/decoder"
	"github.com/vuuvv/qnet6/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Node = core.Node
type Kind = core.Kind
type Config = core.Config
type Options = core.Options
type ChecksumResult = core.ChecksumResult

type Header = decoder.Header
type Result = decoder.Result

var DefaultConfig = core.DefaultConfig
var NewConfigFromBytes = core.NewConfigFromBytes
var NewConfigFromFile = core.NewConfigFromFile
var DefaultOptions = core.DefaultOptions

var Decode = decoder.Decode
var EncodeFrame = decoder.EncodeFrame

func Setup() {
	var logger *zap.Logger
	var err error
	if !zap.L().Core().Enabled(zapcore.PanicLevel) {
		logger, err = zap.NewDevelopment()
		if err != nil {
			panic(err)
		}
	} else {
		logger = zap.L()
	}
	log.SetLogger(logger)
	log.SetDefaultLogger(logger)
}
