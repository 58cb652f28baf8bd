package gatt

import "github.com/sirupsen/logrus"

// SetLogLevel adjusts the package-wide logrus level. It is meant
// for embedders and the attgattd demo binary; library code never
// changes the level itself.
func SetLogLevel(level logrus.Level) {
	logrus.SetLevel(level)
}

// SetLogFormatter swaps the package-wide logrus formatter, e.g. to
// logrus.TextFormatter{} for a human-readable CLI or
// &logrus.JSONFormatter{} for a service deployment.
func SetLogFormatter(f logrus.Formatter) {
	logrus.SetFormatter(f)
}
