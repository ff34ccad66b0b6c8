package ingest

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-getter"
	"go.uber.org/zap"

	"github.com/teranos/starmatch/errors"
	"github.com/teranos/starmatch/logger"
)

// Fetch downloads src into the file dst. A compressed source is
// decompressed on the way in unless dst keeps a compressed extension, in
// which case the bytes are stored as they are and Open decompresses them
// at load time. dst is replaced only after the download completes.
func Fetch(ctx context.Context, src, dst string, log *zap.SugaredLogger) error {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	pwd, err := os.Getwd()
	if err != nil {
		pwd = "."
	}

	detected, err := getter.Detect(src, pwd, getter.Detectors)
	if err != nil {
		return errors.Wrapf(errors.NewInvalidRequestError("unsupported source %q", src), "detect: %v", err)
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return errors.Wrapf(err, "create directory for %s", dst)
	}
	tmp := dst + ".part"
	_ = os.Remove(tmp)

	client := &getter.Client{
		Ctx:  ctx,
		Src:  detected,
		Dst:  tmp,
		Pwd:  pwd,
		Mode: getter.ClientModeFile,
	}
	if keepsCompression(dst) {
		client.Decompressors = map[string]getter.Decompressor{}
	}

	logger.IngestInfow(log, "Fetching dump",
		logger.FieldURL, src,
		logger.FieldPath, dst)

	if err := client.Get(); err != nil {
		_ = os.Remove(tmp)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return errors.Wrapf(err, "fetch %s", src)
	}
	if err := os.Rename(tmp, dst); err != nil {
		_ = os.Remove(tmp)
		return errors.Wrapf(err, "replace %s", dst)
	}

	if fi, err := os.Stat(dst); err == nil {
		logger.IngestInfow(log, "Fetched dump",
			logger.FieldPath, dst,
			"bytes", fi.Size())
	}
	return nil
}

func keepsCompression(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz", ".zst":
		return true
	}
	return false
}
