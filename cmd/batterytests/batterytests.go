package main

import (
	"flag"
	"fmt"
	"time"

	"github.com/team5607/go-controller/pkg/ina219"
	"github.com/team5607/go-controller/pkg/robotconfig"
)

func main() {
	device := flag.String("device", robotconfig.Default().Hardware.BatteryDevice, "I2C bus")
	addr := flag.Int("addr", ina219.BatteryAddr, "INA219 address")
	flag.Parse()

	pm, err := ina219.NewI2C(*device, *addr)
	if err != nil {
		fmt.Println("Failed to open INA219", err)
		return
	}
	defer pm.Close()

	err = pm.Configure(0.1, 3.2)
	if err != nil {
		fmt.Println("Failed to configure INA219", err)
		return
	}

	for range time.NewTicker(500 * time.Millisecond).C {
		voltage, err := pm.ReadBusVoltage()
		fmt.Printf("%.2fV %v ", voltage, err)
		current, err := pm.ReadCurrent()
		fmt.Printf("%.3fA %v ", current, err)
		power, err := pm.ReadPower()
		fmt.Printf("%.3fW %v\n", power, err)
	}
}
