package main

import "SocialInsights/src/cmd"

func main() {
	cmd.Execute()
}
