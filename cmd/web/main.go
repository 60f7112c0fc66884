// Command web runs the recipe-sharing HTTP service.
package main

import (
	"go.uber.org/fx"

	"github.com/foodgram/v2/internal/infrastructure/container"
)

func main() {
	fx.New(container.Module).Run()
}
