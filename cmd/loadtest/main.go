// Herramienta de humo: lanza checkouts concurrentes contra el mismo
// producto y comprueba que el stock final nunca queda en negativo ni
// se venden más unidades de las disponibles.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

// Result registra el desenlace HTTP de un checkout.
type Result struct {
	Status int
	Body   string
	Err    error
}

func main() {
	baseURL := flag.String("base", "http://localhost:8080", "server base url")
	productID := flag.Uint("product", 1, "product id")
	nOrders := flag.Int("orders", 50, "concurrent checkouts")
	concurrency := flag.Int("c", 25, "max concurrency")
	qty := flag.Int("qty", 1, "units per checkout")
	flag.Parse()

	client := &http.Client{Timeout: 10 * time.Second}

	before, err := getStock(client, *baseURL, *productID)
	if err != nil {
		panic(fmt.Sprintf("stock inicial: %v", err))
	}
	fmt.Printf("stock inicial: %d\n", before)

	fmt.Printf("lanzando %d checkouts (concurrencia %d, %d uds cada uno)\n", *nOrders, *concurrency, *qty)
	results := runCheckouts(client, *baseURL, *productID, *nOrders, *concurrency, *qty)
	ok := printSummary(results)

	after, err := getStock(client, *baseURL, *productID)
	if err != nil {
		fmt.Println("stock final err:", err)
		return
	}
	fmt.Printf("stock final: %d\n", after)

	sold := before - after
	if after < 0 || sold != ok * *qty {
		fmt.Printf("FALLO: vendidas %d uds pero %d pedidos aceptados de %d uds\n", sold, ok, *qty)
	} else {
		fmt.Println("OK: sin sobreventa")
	}
}

func runCheckouts(client *http.Client, baseURL string, productID uint, n, concurrency, qty int) []Result {
	type item struct {
		ProductoID uint   `json:"producto_id"`
		Cantidad   string `json:"cantidad"`
	}
	type req struct {
		ClienteNombre    string `json:"cliente_nombre"`
		ClienteTelefono  string `json:"cliente_telefono"`
		ClienteDireccion string `json:"cliente_direccion"`
		ClienteCiudad    string `json:"cliente_ciudad"`
		Productos        []item `json:"productos"`
		MetodoPago       string `json:"metodo_pago"`
	}

	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup
	results := make([]Result, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			body, _ := json.Marshal(req{
				ClienteNombre:    fmt.Sprintf("Cliente %d", idx),
				ClienteTelefono:  fmt.Sprintf("6%08d", idx),
				ClienteDireccion: "Calle Mayor 1",
				ClienteCiudad:    "Madrid",
				Productos:        []item{{ProductoID: productID, Cantidad: fmt.Sprintf("%d", qty)}},
				MetodoPago:       "efectivo",
			})
			resp, err := client.Post(baseURL+"/api/pedidos", "application/json", bytes.NewReader(body))
			if err != nil {
				results[idx] = Result{Err: err}
				return
			}
			defer resp.Body.Close()
			b, _ := io.ReadAll(resp.Body)
			results[idx] = Result{Status: resp.StatusCode, Body: string(b)}
		}(i)
	}
	wg.Wait()
	return results
}

func getStock(client *http.Client, baseURL string, productID uint) (int, error) {
	resp, err := client.Get(fmt.Sprintf("%s/api/productos/%d", baseURL, productID))
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	var out struct {
		Producto struct {
			Stock int `json:"stock"`
		} `json:"producto"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, err
	}
	return out.Producto.Stock, nil
}

func printSummary(results []Result) (ok int) {
	counts := map[int]int{}
	errs := 0
	for _, r := range results {
		if r.Err != nil {
			errs++
			continue
		}
		counts[r.Status]++
	}
	for status, n := range counts {
		fmt.Printf("  HTTP %d: %d\n", status, n)
	}
	if errs > 0 {
		fmt.Printf("  errores de red: %d\n", errs)
	}
	return counts[http.StatusCreated]
}
