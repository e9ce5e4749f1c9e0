package routes

import (
	"log"
	"os"
	"strconv"

	_ "billingapp/docs" // generated by swag
	"billingapp/internal/adapter/http/handlers"
	"billingapp/internal/adapter/persistence/repository"
	"billingapp/internal/infrastructure/database"
	"billingapp/internal/infrastructure/logging"
	"billingapp/internal/infrastructure/payments"
	"billingapp/internal/usecase"
	"billingapp/internal/usecase/interfaces"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

var router = gin.Default()

const PORT = 8080

// Run will start the server
func Run() {
	setMiddlewares()

	// Swagger documentation endpoint
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	getRoutes()

	err := router.Run(":" + strconv.Itoa(PORT))
	if err != nil {
		log.Fatalf("Failed to startup the application: %v", err.Error())
	}
}

func getRoutes() {
	logger := logging.New()
	ddb := database.ConnectDynamoDB()

	clientRepo := repository.NewClientDynamoRepository(ddb)
	itemRepo := repository.NewCatalogItemDynamoRepository(ddb)
	estimateRepo := repository.NewEstimateDynamoRepository(ddb)
	invoiceRepo := repository.NewInvoiceDynamoRepository(ddb)
	paymentRepo := repository.NewInvoicePaymentDynamoRepository(ddb)

	var paymentGateway interfaces.IPaymentGateway
	mpGateway, err := payments.NewMercadoPagoGateway(os.Getenv("MERCADOPAGO_ACCESS_TOKEN"), logger)
	if err != nil {
		logger.Warn("Mercado Pago gateway not configured", zap.Error(err))
	} else {
		paymentGateway = mpGateway
	}

	clientUseCase := usecase.NewClientUseCase(clientRepo, logger)
	itemUseCase := usecase.NewCatalogItemUseCase(itemRepo, logger)
	estimateUseCase := usecase.NewEstimateUseCase(estimateRepo, clientRepo, logger)
	invoiceUseCase := usecase.NewInvoiceUseCase(invoiceRepo, estimateRepo, clientRepo, logger)
	paymentUseCase := usecase.NewInvoicePaymentUseCase(paymentRepo, invoiceRepo, paymentGateway, logger)

	clientHandler := handlers.NewClientHandler(clientUseCase)
	itemHandler := handlers.NewCatalogItemHandler(itemUseCase)
	estimateHandler := handlers.NewEstimateHandler(estimateUseCase)
	invoiceHandler := handlers.NewInvoiceHandler(invoiceUseCase)
	paymentHandler := handlers.NewInvoicePaymentHandler(paymentUseCase)

	v1 := router.Group("/v1")
	addPingRoutes(v1)
	addBillingRoutes(v1, clientHandler, itemHandler, estimateHandler, invoiceHandler, paymentHandler)
}

func setMiddlewares() {
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Printf("Recovered from panic: %v", recovered)
		c.AbortWithStatus(500)
	}))
}
