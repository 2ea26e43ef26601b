package market

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"pet-market-engine/internal/host"
)

func RegisterRoutes(r chi.Router, exec *host.Executor) {
	r.Route("/contracts/"+ContractName, func(cr chi.Router) {
		cr.Post("/init", initMarketHandler(exec))
		cr.Post("/handle", handleMarketHandler(exec))
		cr.Post("/query", queryMarketHandler(exec))
	})
}

// initMarketHandler godoc
// @Summary Instanciar el contrato Market
// @Description Guarda el token de comida ya deployado, el exchange_rate y la moneda aceptada (por defecto uscrt). El admin por defecto es el caller.
// @Tags market
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, dirección del caller"
// @Param Authorization header string false "Bearer token en producción"
// @Param payload body host.CallRequest true "msg: {token_contract:{address,code_hash}, exchange_rate, accepted_denom?, admin?, viewing_key?}"
// @Success 200 {object} host.CallResponse
// @Failure 400 {string} string "msg inválido / ya instanciado"
// @Failure 401 {string} string "unauthorized"
// @Router /contracts/market/init [post]
func initMarketHandler(exec *host.Executor) http.HandlerFunc {
	return host.InitHandler(exec, ContractName)
}

// handleMarketHandler godoc
// @Summary Comprar comida
// @Description `buy_food {}` con funds en la moneda aceptada. Acredita total_raised y emite un efecto mint de funds*exchange_rate al caller.
// @Tags market
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, dirección del caller"
// @Param Authorization header string false "Bearer token en producción"
// @Param X-Block-Time header int false "Block time (unix segundos)"
// @Param payload body host.CallRequest true "msg: {buy_food:{}}, funds: [{denom, amount}]"
// @Success 200 {object} host.CallResponse
// @Failure 400 {string} string "invalid denomination / empty deposit / overflow"
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "contrato no instanciado"
// @Router /contracts/market/handle [post]
func handleMarketHandler(exec *host.Executor) http.HandlerFunc {
	return host.HandleHandler(exec, ContractName)
}

// queryMarketHandler godoc
// @Summary Consultar el contrato Market
// @Description Variantes: `config {}`, `total_raised {}`, `deposits {depositor, page?, page_size?}`.
// @Tags market
// @Accept json
// @Produce json
// @Param payload body host.CallRequest true "msg: config | total_raised | deposits"
// @Success 200 {object} host.CallResponse
// @Failure 400 {string} string "msg inválido"
// @Failure 404 {string} string "contrato no instanciado"
// @Router /contracts/market/query [post]
func queryMarketHandler(exec *host.Executor) http.HandlerFunc {
	return host.QueryHandler(exec, ContractName)
}
