// Package browser opens offer pages in the operator's browser. A
// configured browser is attempted first; any failure falls back to the
// system default handler. Opening is best-effort throughout, so callers
// record claims whether or not the tab actually appeared.
package browser

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"runtime"

	sysbrowser "github.com/pkg/browser"
)

// Well-known install locations, mirroring what a desktop user actually has.
var knownPaths = map[string]map[string]string{
	"chrome": {
		"windows": `C:\Program Files\Google\Chrome\Application\chrome.exe`,
		"darwin":  "/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
		"linux":   "/usr/bin/google-chrome",
	},
	"firefox": {
		"windows": `C:\Program Files\Mozilla Firefox\firefox.exe`,
		"darwin":  "/Applications/Mozilla Firefox.app/Contents/MacOS/firefox",
		"linux":   "/usr/bin/firefox",
	},
	"brave": {
		"windows": `C:\Program Files\BraveSoftware\Brave-Browser\Application\brave.exe`,
		"darwin":  "/Applications/Brave Browser.app/Contents/MacOS/Brave Browser",
		"linux":   "/usr/bin/brave-browser",
	},
}

type Opener struct {
	name string // chrome | firefox | brave | "" for system default
	path string // explicit binary, wins over the well-known path

	launch func(bin, url string) error // test hook
}

func New(name, path string) *Opener {
	return &Opener{
		name: name,
		path: path,
		launch: func(bin, url string) error {
			return exec.Command(bin, url).Start()
		},
	}
}

// Open launches url in the configured browser, falling back to the system
// default when no browser is configured or the launch fails.
func (o *Opener) Open(url string) error {
	if bin := o.binary(); bin != "" {
		err := o.launch(bin, url)
		if err == nil {
			return nil
		}
		log.Printf("[browser] %s failed (%v), falling back to system default", bin, err)
	}
	if err := sysbrowser.OpenURL(url); err != nil {
		return fmt.Errorf("open %s: %w", url, err)
	}
	return nil
}

func (o *Opener) binary() string {
	if o.path != "" {
		if _, err := os.Stat(o.path); err == nil {
			return o.path
		}
		log.Printf("[browser] configured path not found: %s", o.path)
	}
	if o.name == "" {
		return ""
	}
	paths, ok := knownPaths[o.name]
	if !ok {
		return ""
	}
	bin := paths[runtime.GOOS]
	if bin == "" {
		return ""
	}
	if _, err := os.Stat(bin); err != nil {
		log.Printf("[browser] %s not installed at %s, using system default", o.name, bin)
		return ""
	}
	return bin
}
