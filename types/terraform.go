package types

type TerraformMonitor struct {
	ResourceName string
	Name         string
	Frequency    int
	Locations    []string
	Enabled      bool
}

const DefaultTerraformFrequency = 15
