package hci

import "github.com/rigado/barnowl"

var logger = barnowl.GetLogger().ChildLogger(map[string]interface{}{"pkg": "hci"})
