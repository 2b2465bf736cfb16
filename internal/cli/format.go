package cli

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/zoobzio/nest"
	"github.com/zoobzio/nest/bson"
	"github.com/zoobzio/nest/msgpack"
	"github.com/zoobzio/nest/yaml"
)

const defaultFormat = "json"

// formats maps format names to codec constructors.
var formats = map[string]func() nest.Codec{
	"json":    nest.JSON,
	"yaml":    yaml.New,
	"msgpack": msgpack.New,
	"bson":    bson.New,
}

// aliases maps alternate names and file extensions to format names.
var aliases = map[string]string{
	"yml":     "yaml",
	"mpk":     "msgpack",
	"msgpack": "msgpack",
	"json":    "json",
	"yaml":    "yaml",
	"bson":    "bson",
}

// codecFor returns the codec for a format name or alias.
func codecFor(name string) (nest.Codec, error) {
	canonical, ok := aliases[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unknown format %q (want one of %s)", name, strings.Join(formatNames(), ", "))
	}
	return formats[canonical](), nil
}

// resolveFormat picks the explicit format, else the file extension, else
// JSON.
func resolveFormat(path, explicit string) string {
	if explicit != "" {
		return explicit
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if _, ok := aliases[ext]; ok {
		return ext
	}
	return defaultFormat
}

// isText reports whether a codec writes text that should end in a newline.
func isText(c nest.Codec) bool {
	return c.ContentType() == nest.JSON().ContentType()
}

func formatNames() []string {
	names := make([]string, 0, len(formats))
	for name := range formats {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
