package main

import (
	"context"
	"fmt"
	"io/ioutil"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/Masterminds/semver"
	"github.com/abiosoft/ishell"
	"github.com/asdine/storm/v3"
	"github.com/caarlos0/env/v6"
	"gopkg.in/yaml.v2"

	"github.com/adnanmunawar/surgical-robotics-challenge/comms"
	"github.com/adnanmunawar/surgical-robotics-challenge/haptics"
)

// INTERFACE_VERSION constrains the dVRK interface the configured topics must
// follow. The 2.0 release renamed the cartesian topics (crtk naming), so
// anything from that line needs a different adapter.
const INTERFACE_VERSION = "< 2.0.0"

type EnvConfig struct {
	CONFIG    string `env:"CONFIG" envDefault:"./config.yaml"`
	API_ADDR  string `env:"API_ADDR" envDefault:":8089"`
	DB        string `env:"DB" envDefault:"./tmp/calibration.db"`
	SIMULATED bool   `env:"SIMULATED" envDefault:"0"`
	DEBUG     bool   `env:"DEBUG" envDefault:"0"`
}

// Adapter bundles the live device records with their transport and the
// calibration profile store.
type Adapter struct {
	Devices map[string]*haptics.MTM
	bridge  *comms.Bridge
	db      *storm.DB

	holds map[string]context.CancelFunc
}

func checkInterface(version string) error {
	v, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("bad interface version %q: %w", version, err)
	}
	constraint, err := semver.NewConstraint(INTERFACE_VERSION)
	if err != nil {
		return err
	}
	if !constraint.Check(v) {
		return fmt.Errorf("interface %s unsupported: this adapter speaks the pre-crtk topics (%s)", version, INTERFACE_VERSION)
	}
	return nil
}

func loadConfig(path string) (config haptics.Config, err error) {
	yamlFile, err := ioutil.ReadFile(path)
	if err != nil {
		return config, fmt.Errorf("unable to read config file: %w", err)
	}
	if err = yaml.Unmarshal(yamlFile, &config); err != nil {
		return config, fmt.Errorf("unable to unmarshal config: %w", err)
	}
	return config, nil
}

func main() {
	ENV := new(EnvConfig)
	if err := env.Parse(ENV); err != nil {
		panic(fmt.Sprintf("unable to parse environment: %v", err))
	}

	configPath, err := filepath.Abs(ENV.CONFIG)
	if err != nil {
		panic(err)
	}
	config, err := loadConfig(configPath)
	if err != nil {
		panic(err)
	}

	if config.Interface != "" {
		if err = checkInterface(config.Interface); err != nil {
			panic(err)
		}
	}

	adapter := &Adapter{
		Devices: make(map[string]*haptics.MTM, len(config.Devices)),
		holds:   make(map[string]context.CancelFunc),
	}

	// calibration profile store
	dbDir := filepath.Dir(ENV.DB)
	if _, err := os.Stat(dbDir); os.IsNotExist(err) {
		os.MkdirAll(dbDir, 0755)
	}
	adapter.db, err = storm.Open(ENV.DB)
	if err != nil {
		panic(fmt.Sprintf("unable to open calibration db: %v", err))
	}
	defer adapter.db.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if ENV.SIMULATED {
		log.Println("running with simulated device feeds")
		for name, dc := range config.Devices {
			m := haptics.NewMTM(name, haptics.NewCalibrationFrame(), nil)
			dc.Apply(m)
			adapter.Devices[name] = m
			go haptics.NewSimulatedFeed(m).Run(ctx)
		}
	} else {
		adapter.bridge, err = comms.Dial(config.Bridge)
		if err != nil {
			panic(fmt.Sprintf("unable to reach bridge: %v", err))
		}
		defer adapter.bridge.Close()

		for name, dc := range config.Devices {
			pub, err := comms.NewDevicePublisher(adapter.bridge, dc.Prefix)
			if err != nil {
				panic(fmt.Sprintf("unable to advertise %s: %v", name, err))
			}
			m := haptics.NewMTM(name, haptics.NewCalibrationFrame(), pub)
			dc.Apply(m)
			if err = adapter.bridge.BindDevice(dc.Prefix, m); err != nil {
				panic(fmt.Sprintf("unable to bind %s: %v", name, err))
			}
			adapter.Devices[name] = m
			log.Printf("created MTM device %s from topics at %s", name, dc.Prefix)
		}
	}

	go func() {
		log.Printf("status api listening on %s", ENV.API_ADDR)
		if err := http.ListenAndServe(ENV.API_ADDR, adapter.Router()); err != nil {
			log.Printf("status api: %v", err)
		}
	}()

	adapter.shell(ctx).Run()
}

func (a *Adapter) device(c *ishell.Context) *haptics.MTM {
	if len(c.Args) < 1 {
		c.Println("missing device name")
		return nil
	}
	m, ok := a.Devices[c.Args[0]]
	if !ok {
		c.Printf("unknown device %s\n", c.Args[0])
		return nil
	}
	return m
}

func (a *Adapter) shell(ctx context.Context) *ishell.Shell {
	shell := ishell.New()
	shell.Println("MTM adapter shell")

	shell.AddCmd(&ishell.Cmd{
		Name: "state",
		Help: "state <device>",
		Func: func(c *ishell.Context) {
			if m := a.device(c); m != nil {
				c.Printf("%+v\n", m.State())
			}
		},
	})
	shell.AddCmd(&ishell.Cmd{
		Name: "scale",
		Help: "scale <device> <value>",
		Func: func(c *ishell.Context) {
			m := a.device(c)
			if m == nil {
				return
			}
			if len(c.Args) < 2 {
				c.Printf("scale is %v\n", m.Scale())
				return
			}
			s, err := strconv.ParseFloat(c.Args[1], 64)
			if err != nil {
				c.Printf("bad scale: %v\n", err)
				return
			}
			m.SetScale(s)
		},
	})
	shell.AddCmd(&ishell.Cmd{
		Name: "hold",
		Help: "hold <device> start|stop - run the pre-coag hold loop",
		Func: func(c *ishell.Context) {
			m := a.device(c)
			if m == nil || len(c.Args) < 2 {
				return
			}
			name := c.Args[0]
			switch c.Args[1] {
			case "start":
				if _, running := a.holds[name]; running {
					c.Println("already holding")
					return
				}
				hctx, stop := context.WithCancel(ctx)
				a.holds[name] = stop
				go haptics.HoldLoop(hctx, m, haptics.DefaultHoldPeriod)
			case "stop":
				if stop, ok := a.holds[name]; ok {
					stop()
					delete(a.holds, name)
				}
			default:
				c.Println("expected start or stop")
			}
		},
	})
	shell.AddCmd(&ishell.Cmd{
		Name: "switch",
		Help: "switch <device> [clear] - show or clear the slave-switch request",
		Func: func(c *ishell.Context) {
			m := a.device(c)
			if m == nil {
				return
			}
			if len(c.Args) > 1 && c.Args[1] == "clear" {
				m.ClearSwitchSlave()
				return
			}
			c.Printf("switch slave requested: %v\n", m.SwitchSlaveRequested())
		},
	})
	shell.AddCmd(&ishell.Cmd{
		Name: "save",
		Help: "save <device> <profile> - persist current calibration",
		Func: func(c *ishell.Context) {
			m := a.device(c)
			if m == nil || len(c.Args) < 2 {
				return
			}
			if err := a.SaveProfile(c.Args[1], m); err != nil {
				c.Printf("save failed: %v\n", err)
			}
		},
	})
	shell.AddCmd(&ishell.Cmd{
		Name: "load",
		Help: "load <device> <profile> - apply a saved calibration",
		Func: func(c *ishell.Context) {
			m := a.device(c)
			if m == nil || len(c.Args) < 2 {
				return
			}
			if err := a.LoadProfile(c.Args[1], m); err != nil {
				c.Printf("load failed: %v\n", err)
			}
		},
	})
	shell.AddCmd(&ishell.Cmd{
		Name: "profiles",
		Help: "profiles - list saved calibration profiles",
		Func: func(c *ishell.Context) {
			profiles, err := a.Profiles()
			if err != nil {
				c.Printf("list failed: %v\n", err)
				return
			}
			for _, p := range profiles {
				c.Printf("%s (scale %v)\n", p.Name, p.Scale)
			}
		},
	})

	return shell
}
