package config

import (
	"fmt"
	"os"
)

func WriteTemplate(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(clientTemplate), 0o600)
}

const clientTemplate = `host = "http://127.0.0.1:5000"
request_timeout_ms = 10000
metrics_addr = ""

[network]
flaky = "10%"
slow = "75ms 100ms distribution normal"
driver = "udn"

[containers.c0]
image = "busybox"
hostname = "c0"
command = "sleep infinity"

[containers.c1]
image = "busybox"
hostname = "c1"

[containers.c1.links]
c0 = "c0"
`
