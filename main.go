package main

import (
	"fmt"
	"log"
	"os"

	"SocialInsights/src/utils"
)

// 向运行中的服务发送 SIGHUP，触发日志重开和数据配置重载
func main() {
	pidFile := "socialinsights.pid"
	if len(os.Args) > 1 {
		pidFile = os.Args[1]
	}

	pid, err := utils.SignalReload(pidFile)
	if err != nil {
		log.Fatal("Failed to send SIGHUP:", err)
	}
	fmt.Printf("SIGHUP sent to %d\n", pid)
}
