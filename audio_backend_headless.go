//go:build headless

package main

import "errors"

func init() {
	compiledFeatures = append(compiledFeatures, "audio:headless")
}

var errOtoUnavailable = errors.New("oto backend not compiled into headless build; use -backend null")

type OtoPlayer struct {
	outputStatusTracker
}

func NewOtoPlayer(sampleRate, blockSize int) (*OtoPlayer, error) {
	return nil, errOtoUnavailable
}

func (op *OtoPlayer) SetupPlayer(src SampleSource) {}

func (op *OtoPlayer) Start() error {
	return errOtoUnavailable
}

func (op *OtoPlayer) Stop() error {
	return nil
}

func (op *OtoPlayer) Close() error {
	return nil
}

func (op *OtoPlayer) IsStarted() bool {
	return false
}
