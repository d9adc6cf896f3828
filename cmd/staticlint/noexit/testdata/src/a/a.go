package main

import (
	"os"
	sys "os"
)

func init() {
	sys.Exit(3) // want "вызов os.Exit в функции init запрещён"
}

func main() {
	defer func() {}()
	os.Exit(1) // want "вызов os.Exit в функции main запрещён"
}

func helper() {
	os.Exit(2)
}
