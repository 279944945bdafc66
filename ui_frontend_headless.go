//go:build headless

package main

import "errors"

func init() {
	compiledFeatures = append(compiledFeatures, "ui:headless")
}

func NewEbitenFrontend(actions *SynthActions) (UIFrontend, error) {
	return nil, errors.New("window frontend not compiled into headless build; use -ui term")
}
