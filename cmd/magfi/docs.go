package main

//go:generate swag init -g cmd/magfi/main.go -o docs

// @title           magfi API
// @version         0.1.0
// @description     News ingestion, sentiment-based price prediction, and buy-window alerts for tracked assets and currencies.
// @host            localhost:8080
// @BasePath        /
// @schemes         http
