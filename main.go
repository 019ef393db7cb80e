// ./main.go
package main

import (
	"github.com/autoapply/autoapply-cli/cmd"
)

func main() {
	cmd.Execute()
}
