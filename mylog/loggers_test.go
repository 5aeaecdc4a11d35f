package mylog

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggers(t *testing.T) {
	myassert := assert.New(t)
	dir, err := ioutil.TempDir("", "mylog")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	l, err := NewMyLog(filepath.Join(dir, "logs"), DebugLevel, 1)
	require.NoError(t, err)
	l.GetLog().Out = ioutil.Discard
	myassert.Equal(logrus.DebugLevel, l.Logger.Level)

	l.Logger.WithFields(logrus.Fields{"name": "clog_test"}).Infof("format info msg [%s]", "test msg")

	files, err := filepath.Glob(filepath.Join(dir, "logs", logFileName+".*"))
	require.NoError(t, err)
	require.Len(t, files, 1)
	data, err := ioutil.ReadFile(files[0])
	require.NoError(t, err)
	myassert.Contains(string(data), "test msg")
}

func TestConvertLevel(t *testing.T) {
	myassert := assert.New(t)
	myassert.Equal(logrus.WarnLevel, convertLevel(WarnLevel))
	myassert.Equal(logrus.InfoLevel, convertLevel("verbose"))

	l, err := Init("", ErrorLevel, 0)
	require.NoError(t, err)
	myassert.Equal(logrus.ErrorLevel, l.Level)
	myassert.Len(l.Hooks[logrus.InfoLevel], 0)
}
