package main

// Blank imports compile the module set into the binary; each module
// registers itself with the core registry in its init().
import (
	_ "github.com/YiFeiChang/Smart-Farm-Steward/internal/gateway"
	_ "github.com/YiFeiChang/Smart-Farm-Steward/modules/channel/line"
	_ "github.com/YiFeiChang/Smart-Farm-Steward/modules/provider/openai"
	_ "github.com/YiFeiChang/Smart-Farm-Steward/modules/store/sqlite"
)
