//go:build !nogpu

package gpu

import (
	_ "embed"
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
)

//go:embed mandelbrot.wgsl
var mandelbrotShaderSource string

// kernelEntryPoint is the name of the compute entry point in the shader.
const kernelEntryPoint = "mandelbrot"

// ShaderSource returns the WGSL source of the iteration kernel.
func ShaderSource() string {
	return mandelbrotShaderSource
}

// compileToSPIRV compiles WGSL source to a SPIR-V uint32 word slice.
func compileToSPIRV(wgslSource string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(wgslSource)
	if err != nil {
		return nil, fmt.Errorf("compile shader: %w", err)
	}

	// SPIR-V is little-endian 32-bit words.
	spirvCode := make([]uint32, len(spirvBytes)/4)
	for i := range spirvCode {
		spirvCode[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return spirvCode, nil
}

// createShaderModule compiles the kernel and creates the HAL shader module.
func createShaderModule(device hal.Device) (hal.ShaderModule, error) {
	spirv, err := compileToSPIRV(mandelbrotShaderSource)
	if err != nil {
		return nil, err
	}
	return device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "mandelbrot_kernel",
		Source: hal.ShaderSource{SPIRV: spirv},
	})
}
