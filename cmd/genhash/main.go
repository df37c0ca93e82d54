// cmd/genhash/main.go: Imprime el hash bcrypt de una contraseña.
// Uso: go run ./cmd/genhash <password>
package main

import (
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"

	"github.com/raulbarbur/abysstracker-system-sub000/internal/service"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "uso: genhash <password>")
		os.Exit(2)
	}
	h, err := bcrypt.GenerateFromPassword([]byte(os.Args[1]), service.BcryptCost)
	if err != nil {
		panic(err)
	}
	fmt.Println(string(h))
}
