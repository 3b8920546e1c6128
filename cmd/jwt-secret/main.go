// jwt-secret — генерация случайного секрета для подписи JWT.
//
//	jwt-secret [bytes]
//
// По умолчанию 64 байта (128 hex-символов), минимум 32.
package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/vnagar/portfolio/backend/internal/auth/token"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	nBytes := token.DefaultSecretBytes
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < token.MinSecretBytes {
			fmt.Fprintf(stderr, "Ошибка: длина секрета должна быть целым числом не меньше %d байт\n", token.MinSecretBytes)
			return 1
		}
		nBytes = n
	}

	secret, err := token.GenerateSecret(nBytes)
	if err != nil {
		fmt.Fprintf(stderr, "Ошибка: %v\n", err)
		return 1
	}

	line := strings.Repeat("=", 80)
	fmt.Fprintf(stdout, "\nСгенерирован JWT секрет:\n%s\n%s\n%s\n", line, secret, line)
	fmt.Fprintf(stdout, "\nДлина: %d символов (%d байт)\n", len(secret), nBytes)
	fmt.Fprintf(stdout, "\nДобавьте в .env:\nJWT_SECRET=%q\n\n", secret)
	return 0
}
