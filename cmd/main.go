package main

import "medical-analysis-service/cmd/bootstrap"

func main() {
	bootstrap.Run()
}
