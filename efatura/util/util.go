package util

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-faster/errors"
)

func DebugEnabled() bool {
	return etb("EFATURA_DEBUG")
}

// HttpTraceEnabled włącza logowanie kopert SOAP (bez nagłówka bezpieczeństwa).
func HttpTraceEnabled() bool {
	return etb("EFATURA_HTTP_TRACE")
}

func etb(envName string) bool {
	v, ok := os.LookupEnv(envName)
	if !ok {
		return false
	}

	bv, err := strconv.ParseBool(v)

	return err == nil && bv
}

// GetEnv zwraca wartość zmiennej albo def, gdy zmienna jest pusta lub nieustawiona.
func GetEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func GetEnvInt(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.Wrapf(err, "%s is not a number", key)
	}
	return n, nil
}

// GetEnvDuration akceptuje zapis time.ParseDuration albo liczbę sekund.
func GetEnvDuration(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, errors.Wrapf(err, "%s is not a duration", key)
	}
	return d, nil
}

// GetEnvList dzieli wartość po przecinkach, puste elementy są pomijane.
func GetEnvList(key string) []string {
	return SplitList(os.Getenv(key))
}

func SplitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
