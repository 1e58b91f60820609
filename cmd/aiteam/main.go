// Command aiteam 在命令行中调用多后端 AI 编排器
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
