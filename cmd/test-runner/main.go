// Package main - test_runner.go
// Executable to run the in-process soak scenarios.
package main

import (
	"fmt"
	"os"

	"github.com/MRamiBalles/HaizkolariIdle/server/test"
)

func main() {
	fmt.Println("🪓 HAIZKOLARI IDLE - SOAK TEST SUITE")
	fmt.Println("================================================")

	// Test 1: full grind session
	fmt.Println("\n🧪 Iniciando Test: La Jornada del Haizkolari...")
	grindTest := test.NewGrindSessionTest()
	grindTest.RunTest()

	// Summary
	results := grindTest.GetResults()
	passed := 0
	failed := 0

	for _, r := range results {
		if r.Passed {
			passed++
		} else {
			failed++
		}
	}

	fmt.Println("\n" + string(repeatChar('=', 60)))
	fmt.Println("📊 RESUMEN DE PRUEBAS")
	fmt.Println(string(repeatChar('=', 60)))
	fmt.Printf("   ✅ Pasadas: %d\n", passed)
	fmt.Printf("   ❌ Fallidas: %d\n", failed)

	if failed > 0 {
		fmt.Println("\n⚠️  La economía requiere recalibración")
		os.Exit(1)
	} else {
		fmt.Println("\n✅ El motor está listo para el despliegue")
		os.Exit(0)
	}
}

func repeatChar(c byte, count int) []byte {
	result := make([]byte, count)
	for i := 0; i < count; i++ {
		result[i] = c
	}
	return result
}
