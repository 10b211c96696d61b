package main

import (
	"context"
	"log"
	"os"

	"portlogistics/server/internal/app"
)

func main() {
	if err := app.Run(context.Background(), app.Config{}, os.Stdin, os.Stdout); err != nil {
		log.Fatalf("%v", err)
	}
}
