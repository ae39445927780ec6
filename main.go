/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import "tsched/cmd"

func main() {
	cmd.Execute()
}
