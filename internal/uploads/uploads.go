// Package uploads keeps evidence files on the local filesystem.
package uploads

import (
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/cockroachdb/errors"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const timestampLayout = "20060102_150405"

var ErrEmptyFilename = errors.New("filename is empty after sanitizing")

type Store struct {
	dir string
	now func() time.Time
}

type Option func(*Store)

// WithClock подменяет источник времени (для тестов).
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func New(dir string, opts ...Option) (*Store, error) {
	if dir == "" {
		return nil, errors.New("upload directory is not set")
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, errors.Wrapf(err, "create upload directory %s", dir)
	}

	s := &Store{dir: dir, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

func (s *Store) Dir() string { return s.dir }

// Saved описывает записанный на диск файл.
type Saved struct {
	Filename         string
	OriginalFilename string
	Path             string
	Size             int64
}

// Save записывает содержимое под именем "<YYYYMMDD_HHMMSS>_<sanitized>".
// Если такое имя уже занято (две загрузки за секунду), добавляется суффикс -N.
func (s *Store) Save(original string, r io.Reader) (Saved, error) {
	clean := SanitizeFilename(original)
	if clean == "" {
		return Saved{}, errors.Wrapf(ErrEmptyFilename, "%q", original)
	}

	stamp := s.now().Format(timestampLayout)
	ext := filepath.Ext(clean)
	base := strings.TrimSuffix(clean, ext)

	var (
		f    *os.File
		name string
		err  error
	)
	for i := 0; i < 100; i++ {
		name = stamp + "_" + clean
		if i > 0 {
			name = stamp + "_" + base + "-" + strconv.Itoa(i) + ext
		}
		f, err = os.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
		if err == nil || !errors.Is(err, os.ErrExist) {
			break
		}
	}
	if err != nil {
		return Saved{}, errors.Wrapf(err, "create %s", name)
	}

	path := filepath.Join(s.dir, name)
	size, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return Saved{}, errors.Wrapf(err, "write %s", name)
	}

	return Saved{
		Filename:         name,
		OriginalFilename: clean,
		Path:             path,
		Size:             size,
	}, nil
}

// Remove удаляет файл; отсутствующий файл ошибкой не считается.
func (s *Store) Remove(path string) error {
	err := os.Remove(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return errors.Wrapf(err, "remove %s", path)
	}
	return nil
}

// SanitizeFilename приводит имя к ASCII без каталогов: буквы, цифры, "_", ".", "-".
// Пробелы превращаются в "_", ведущие и конечные точки и подчёркивания отбрасываются.
func SanitizeFilename(name string) string {
	folded, _, err := transform.String(
		transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn))),
		name,
	)
	if err != nil {
		folded = name
	}

	folded = strings.NewReplacer("/", " ", "\\", " ").Replace(folded)
	folded = strings.Join(strings.Fields(folded), "_")

	var b strings.Builder
	for _, r := range folded {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '_' || r == '.' || r == '-':
			b.WriteRune(r)
		}
	}

	return strings.Trim(b.String(), "._")
}
