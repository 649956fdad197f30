package main

import "github.com/SitanshuA091/FACE-Approval-App/cmd"

func main() {
	cmd.Execute()
}
