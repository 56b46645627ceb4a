// Package logging bridges this module's components to logrus without tying
// them to a concrete *logrus.Logger or *logrus.Entry.
package logging

import (
	"github.com/sirupsen/logrus"
)

// Logger is satisfied by both *logrus.Logger and *logrus.Entry, letting
// every package accept a logger and call WithField/WithFields to tag its
// own log lines with a "component" field.
type Logger interface {
	logrus.FieldLogger
}
