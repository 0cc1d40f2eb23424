// Mints a development access token for exercising the API by hand.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/tidyops/payroll-backend-go/internal/config"
	"github.com/tidyops/payroll-backend-go/internal/pkg/jwt"
)

func main() {
	employeeID := flag.String("employee", "", "employee ID to embed in the token")
	role := flag.String("role", "employee", "role claim: employee or admin")
	flag.Parse()

	if *employeeID == "" {
		fmt.Fprintln(os.Stderr, "usage: token -employee <id> [-role admin]")
		os.Exit(1)
	}
	if *role != string(jwt.RoleEmployee) && *role != string(jwt.RoleAdmin) {
		fmt.Fprintln(os.Stderr, "role must be employee or admin")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading config:", err)
		os.Exit(1)
	}

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	token, expiresAt, err := jwtService.GenerateAccessToken(*employeeID, jwt.Role(*role))
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error generating token:", err)
		os.Exit(1)
	}

	fmt.Println(token)
	fmt.Fprintf(os.Stderr, "expires at %d\n", expiresAt)
}
