package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/team5607/go-controller/pkg/notesensor"
	"github.com/team5607/go-controller/pkg/pca9685"
	"github.com/team5607/go-controller/pkg/robotconfig"
)

func main() {
	device := robotconfig.Default().Hardware.PWMDevice
	if len(os.Args) > 1 {
		device = os.Args[1]
	}
	pwmController, err := pca9685.New(device)
	if err != nil {
		fmt.Println("Failed to open PCA9685", err)
		return
	}
	defer pwmController.Close()

	err = pwmController.Configure()
	if err != nil {
		fmt.Println("Failed to configure PCA9685", err)
		return
	}

	fmt.Printf(`Commands:
    l <n> <value>           # Pulse output, as for an LED controller
    p <n> <pwm-duty-cycle>  # Raw PWM

<n>               Port number 0-15
<value>           -1.0-1.0; empty=%v detected=%v ready=%v
<pwm-duty-cycle>  Raw PWM duty cycle 0.0-1.0; 0=fully off, 1.0=fully on
`, notesensor.LEDEmpty, notesensor.LEDDetected, notesensor.LEDReady)

	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			fmt.Println("\nFailed to read stdin: ", err)
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		switch parts[0] {
		case "l", "p":
			if len(parts) < 3 {
				fmt.Println("Not enough parameters")
				continue
			}
			n, err := strconv.Atoi(parts[1])
			if err != nil {
				fmt.Println("Expected int, not ", parts[1])
				continue
			}
			v, err := strconv.ParseFloat(parts[2], 64)
			if err != nil {
				fmt.Println("Expected float, not ", parts[2])
				continue
			}
			if parts[0] == "l" {
				fmt.Printf("Setting pulse %d to %f\n", n, v)
				err = pwmController.SetPulse(n, v)
			} else {
				fmt.Printf("Setting PWM %d to %f\n", n, v)
				err = pwmController.SetPWM(n, v)
			}
			if err != nil {
				fmt.Println("Failed to write to PCA9685: ", err)
			}
		default:
			fmt.Println("Unknown command ", parts[0])
		}
	}
}
