package main

import "hls-vod-service/app"

func main() {
	app.Run()
}
