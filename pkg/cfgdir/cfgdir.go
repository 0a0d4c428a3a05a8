package cfgdir

import (
	"path/filepath"

	homedir "github.com/mitchellh/go-homedir"
	log "github.com/sirupsen/logrus"
)

var dir string

func init() {
	var err error
	dir, err = homedir.Expand("~/.blackowiak-llm")
	if err != nil {
		log.WithError(err).Fatal("can't find home directory")
	}
}

func Expand(filename string) string {
	return filepath.Join(dir, filename)
}
