package env

import (
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

var cache = make(map[string]string)
var locker sync.RWMutex

func init() {
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
}

// Get resolves key from the environment. When <key>.file is set, the value
// is read from that file instead and cached for the life of the process.
func Get(key string) string {
	locker.RLock()
	val, exists := cache[key]
	locker.RUnlock()
	if exists {
		return val
	}

	filename := viper.GetString(key + ".file")
	if filename == "" {
		return viper.GetString(key)
	}
	val, err := readSecret(filename)
	if err != nil {
		log.Printf("error reading secret %s: %s", key, err.Error())
	}
	Set(key, val)
	return val
}

func Set(key string, val string) {
	locker.Lock()
	defer locker.Unlock()
	cache[key] = val
}

// Unset drops an override made with Set.
func Unset(key string) {
	locker.Lock()
	defer locker.Unlock()
	delete(cache, key)
}

func GetOr(key string, def string) string {
	res := Get(key)
	if res == "" {
		return def
	}
	return res
}

func GetBool(key string) bool {
	return GetBoolOr(key, false)
}

func GetBoolOr(key string, def bool) bool {
	res := Get(key)
	if res == "" {
		return def
	}
	return cast.ToBool(res)
}

func GetInt(key string) int {
	return cast.ToInt(Get(key))
}

func GetFloatOr(key string, def float64) float64 {
	res := Get(key)
	if res == "" {
		return def
	}
	val, err := cast.ToFloat64E(res)
	if err != nil {
		return def
	}
	return val
}

// GetDurationOr accepts anything time.ParseDuration does, or a bare number
// of seconds.
func GetDurationOr(key string, def time.Duration) time.Duration {
	res := Get(key)
	if res == "" {
		return def
	}
	if secs, err := cast.ToFloat64E(res); err == nil {
		return time.Duration(secs * float64(time.Second))
	}
	val, err := cast.ToDurationE(res)
	if err != nil || val <= 0 {
		return def
	}
	return val
}

// GetStringArray splits the value on separator and drops empty entries.
func GetStringArray(key, separator string) []string {
	if separator == "" {
		separator = ","
	}
	result := make([]string, 0)
	for _, v := range strings.Split(Get(key), separator) {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		result = append(result, v)
	}
	return result
}

func readSecret(file string) (string, error) {
	f, err := os.Open(file)
	if err != nil {
		return "", err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(string(data)), nil
}
