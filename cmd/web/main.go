package main

import "users_backend/internal/app"

func main() {
	app.Run()
}
