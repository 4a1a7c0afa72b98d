package appcontext

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/config"
	"github.com/RoyceAzure/lab/storefront/internal/infra/gateway/mercadopago"
	"github.com/RoyceAzure/lab/storefront/internal/infra/hook"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/redis_repo"
	"github.com/RoyceAzure/lab/storefront/internal/infra/token"
	"github.com/RoyceAzure/lab/storefront/internal/service"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

type ApplicationContext struct {
	Cf              *config.Config
	Logger          *zerolog.Logger
	DbConn          *gorm.DB
	DbDao           *db.DbDao
	RedisClient     *redis.Client
	TokenMaker      token.Maker
	Gateway         mercadopago.IClient
	Notifier        hook.INotifier
	AuthService     service.IAuthService
	UserService     service.IUserService
	CatalogService  service.ICatalogService
	CheckoutService service.ICheckoutService
	OrderService    service.IOrderService
	PaymentService  service.IPaymentService
}

func NewApplicationContext(cf *config.Config) (*ApplicationContext, error) {
	app := ApplicationContext{
		Cf: cf,
	}
	err := app.Init()
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func (app *ApplicationContext) Init() error {
	app.setUpLogger()

	err := app.setUpDbConn()
	if err != nil {
		return err
	}
	err = app.setUpDbDao()
	if err != nil {
		return err
	}
	err = app.setUpRedisClient()
	if err != nil {
		return err
	}
	err = app.setUpTokenMaker()
	if err != nil {
		return err
	}
	app.setUpGateway()
	app.setUpNotifier()
	app.setUpServices()

	return nil
}

func (app *ApplicationContext) setUpLogger() {
	logger := zerolog.New(os.Stdout).With().
		Timestamp().
		Str("service", "storefront").
		Logger()
	app.Logger = &logger
}

func (app *ApplicationContext) setUpDbConn() error {
	log.Printf("Start setup database connection")
	conn, err := db.GetDbConn(app.Cf.DbName, app.Cf.DbHost, app.Cf.DbPort, app.Cf.DbUser, app.Cf.DbPas)
	if err != nil {
		return err
	}
	app.DbConn = conn
	log.Printf("Finish setup database connection")
	return nil
}

func (app *ApplicationContext) setUpDbDao() error {
	log.Printf("Start setup database DAO")
	app.DbDao = db.NewDbDao(app.DbConn)
	if err := app.DbDao.InitMigrate(); err != nil {
		return err
	}
	log.Printf("Finish setup database DAO")
	return nil
}

// redis掛掉不擋啟動, 商品讀取會直接走DB
func (app *ApplicationContext) setUpRedisClient() error {
	log.Printf("Start setup redis client")
	client := redis.NewClient(&redis.Options{
		Addr:     app.Cf.RedisAddr,
		Password: app.Cf.RedisPassword,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("redis unreachable, product cache disabled: %v", err)
		app.RedisClient = nil
		return nil
	}

	app.RedisClient = client
	log.Printf("Finish setup redis client")
	return nil
}

func (app *ApplicationContext) setUpTokenMaker() error {
	log.Printf("Start setup token maker")
	tokenMaker, err := token.NewJWTMaker(app.Cf.AuthTokenKey)
	if err != nil {
		return err
	}
	app.TokenMaker = tokenMaker
	log.Printf("Finish setup token maker")
	return nil
}

func (app *ApplicationContext) setUpGateway() {
	log.Printf("Start setup payment gateway client")
	app.Gateway = mercadopago.NewClient(app.Cf.MercadoPagoBaseURL, app.Cf.MercadoPagoToken)
	log.Printf("Finish setup payment gateway client")
}

func (app *ApplicationContext) setUpNotifier() {
	log.Printf("Start setup order hook notifier")
	app.Notifier = hook.NewNotifier(app.Cf.OrderHookURL, app.Logger)
	log.Printf("Finish setup order hook notifier")
}

func (app *ApplicationContext) setUpServices() {
	log.Printf("Start setup services")

	userRepo := db.NewUserRepo(app.DbDao)
	productRepo := db.NewProductRepo(app.DbDao)
	categoryRepo := db.NewCategoryRepo(app.DbDao)
	orderRepo := db.NewOrderRepo(app.DbDao)

	var productCache redis_repo.IProductCacheRepository
	if app.RedisClient != nil {
		productCache = redis_repo.NewProductCacheRepo(app.RedisClient)
	}

	app.AuthService = service.NewAuthService(userRepo, app.TokenMaker)
	app.UserService = service.NewUserService(userRepo)
	app.CatalogService = service.NewCatalogService(productRepo, categoryRepo, productCache, app.Logger)
	app.CheckoutService = service.NewCheckoutService(productRepo, app.Gateway, app.Cf.Currency, service.CheckoutURLs{
		Success: app.Cf.CheckoutSuccessURL,
		Failure: app.Cf.CheckoutFailureURL,
		Pending: app.Cf.CheckoutPendingURL,
	})
	app.OrderService = service.NewOrderService(orderRepo, userRepo, productCache, app.Logger)
	app.PaymentService = service.NewPaymentService(app.Gateway, orderRepo, userRepo, productCache, app.Notifier, app.Logger)

	log.Printf("Finish setup services")
}

func (app *ApplicationContext) Shutdown(ctx context.Context) error {
	log.Printf("Start application shutdown")

	// buffered: timeout分支贏了select時, goroutine還是能送出結果後結束
	done := make(chan error, 1)
	go func() {
		defer close(done)

		if app.RedisClient != nil {
			log.Printf("Closing redis client...")
			if err := app.RedisClient.Close(); err != nil {
				log.Printf("redis close error: %v", err)
			}
		}

		if app.DbConn != nil {
			log.Printf("Closing database connection...")
			if sqlDB, err := app.DbConn.DB(); err == nil {
				if err := sqlDB.Close(); err != nil {
					log.Printf("database close error: %v", err)
				}
			}
		}

		log.Printf("Application shutdown complete")
		done <- nil
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("shutdown timeout: %v", ctx.Err())
	}
}
