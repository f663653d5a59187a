package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/tigerbot-team/tigerbot/ev3-controller/pkg/screen"
)

// Reads image names from stdin and shows each one on the LCD.
func main() {
	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			fmt.Println("\nFailed to read stdin: ", err)
			return
		}

		name := strings.TrimSpace(line)
		if name == "" {
			name = screen.Target
		}
		if err := screen.ShowImage(screen.EV3LCD, screen.ImagePath("", name)); err != nil {
			fmt.Println("Failed to show image:", err)
		}
	}
}
