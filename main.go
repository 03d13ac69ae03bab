/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/dtsynthetic/postman-dynatrace-converter/cmd"

func main() {
	cmd.Execute()
}
