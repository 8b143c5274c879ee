package common

import (
	"os"
	"os/signal"
)

// WaitForSignal blocks until one of the given signals arrives.
func WaitForSignal(signals ...os.Signal) {
	stopSignal := make(chan os.Signal, 1)
	signal.Notify(stopSignal, signals...)
	<-stopSignal
}
