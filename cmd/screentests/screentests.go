package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/team5607/go-controller/pkg/robotconfig"
	"github.com/team5607/go-controller/pkg/screen"
)

func main() {
	ctx := context.Background()
	log, _ := zap.NewDevelopment()

	go screen.LoopUpdatingScreen(ctx, log.Sugar(), robotconfig.Default().Hardware.ScreenDevice)

	screen.SetBatteryVoltage(12.4)
	screen.SetLine("note", "empty")
	screen.SetNotice("NO JOY", screen.LevelErr)

	fmt.Println("Type a mode name; '!text' toggles a warning.")
	reader := bufio.NewReader(os.Stdin)
	warnings := map[string]bool{}
	for {
		fmt.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			fmt.Println("\nFailed to read stdin: ", err)
			return
		}
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "!") {
			text := strings.TrimPrefix(line, "!")
			if warnings[text] {
				screen.ClearNotice(text)
			} else {
				screen.SetNotice(text, screen.LevelErr)
			}
			warnings[text] = !warnings[text]
			continue
		}
		screen.SetMode(line)
	}
}
