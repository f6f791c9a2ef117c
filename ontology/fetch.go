package ontology

import (
	"context"
	"net/url"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-getter"
	"go.uber.org/zap"

	"github.com/teranos/standoff/errors"
)

// Fetch downloads the ontology document at src (any go-getter source: http,
// s3, git::, local path) to the file dst, creating dst's directory.
// The previous dst is only replaced once the download succeeded.
func Fetch(ctx context.Context, src, dst string, log *zap.SugaredLogger) error {
	pwd, err := os.Getwd()
	if err != nil {
		pwd = "."
	}

	detected, err := getter.Detect(src, pwd, getter.Detectors)
	if err != nil {
		return errors.WrapConfigUnavailable(err, "detect ontology source "+src)
	}
	if u, err := url.Parse(detected); err == nil && u.Scheme == "file" && filepath.Clean(u.Path) == mustAbs(dst) {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0750); err != nil {
		return errors.Wrapf(err, "create ontology cache directory for %s", dst)
	}

	tmp := dst + ".fetch"
	client := &getter.Client{
		Ctx:     ctx,
		Src:     detected,
		Dst:     tmp,
		Pwd:     pwd,
		Mode:    getter.ClientModeFile,
		Getters: fetchGetters(),
	}

	if log != nil {
		log.Infow("Fetching ontology",
			"source", src,
			"detected", detected,
			"destination", dst,
		)
	}

	if err := client.Get(); err != nil {
		os.Remove(tmp)
		return errors.WrapConfigUnavailable(err, "fetch ontology from "+src)
	}
	if err := os.Rename(tmp, dst); err != nil {
		os.Remove(tmp)
		return errors.Wrapf(err, "replace %s", dst)
	}
	return nil
}

func mustAbs(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}

// fetchGetters copies local files instead of symlinking them, so the cached
// document survives the source moving.
func fetchGetters() map[string]getter.Getter {
	getters := make(map[string]getter.Getter, len(getter.Getters))
	for k, v := range getter.Getters {
		getters[k] = v
	}
	getters["file"] = &getter.FileGetter{Copy: true}
	return getters
}
