package guard

import (
	"os"
	"sync"
)

var once sync.Once

func init() {
	once.Do(func() {
		if os.Getenv("LECTERN_TEST_MODE") == "" {
			_ = os.Setenv("LECTERN_TEST_MODE", "1")
		}
	})
}
