package connection

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	authcontroller "opsboard/controller/auth"
	billingcontroller "opsboard/controller/billing"
	notifycontroller "opsboard/controller/notify"
	taskcontroller "opsboard/controller/task"
	usercontroller "opsboard/controller/user"
	"opsboard/erp"
	"opsboard/model"
	"opsboard/notifier"
	"opsboard/repository"
	"opsboard/services"
)

func StartServer() {
	router := gin.Default()

	fb, authClient, err := FBConnection()
	if err != nil {
		log.Fatalf("Failed to initialize Firebase clients: %v", err)
	}

	identity, err := services.NewIdentityClient()
	if err != nil {
		log.Fatalf("Failed to initialize identity client: %v", err)
	}
	erpClient, err := erp.NewMcLeodClient()
	if err != nil {
		log.Fatalf("Failed to initialize ERP client: %v", err)
	}
	emailConfig, err := services.LoadEmailConfig()
	if err != nil {
		log.Fatalf("Failed to load SMTP configuration: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	taskRepo := repository.NewTaskRepository(fb)
	billingRepo := repository.NewBillingRepository(fb)
	userRepo := repository.NewUserRepository(fb)
	accountRepo := repository.NewAccountRepository(authClient)

	taskService := services.NewTaskService(taskRepo)
	billingService := services.NewBillingService(billingRepo, erpClient, logger)
	userService := services.NewUserService(userRepo, accountRepo, identity, logger)

	mailer := services.NewSMTPMailer(emailConfig)
	notify := notifier.New(taskRepo, mailer, logger)

	ctx := context.Background()
	notify.Start(ctx)

	taskFeed := notifier.NewFeed[model.BuildTask]()
	billingFeed := notifier.NewFeed[model.BillingEntry]()
	go notifier.NewTaskWatcher(fb, notify, taskFeed, logger).Run(ctx)
	go notifier.NewBillingWatcher(fb, billingFeed, logger).Run(ctx)

	router.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "Api is running!"})
	})

	router.Use(cors.Default())

	authcontroller.SignInController(router, userService, identity, userRepo)
	authcontroller.PasswordController(router, userService)
	taskcontroller.TaskController(router, taskService)
	taskcontroller.SubTaskController(router, taskService)
	taskcontroller.SubscribeController(router, taskService)
	taskcontroller.StreamController(router, taskFeed)
	billingcontroller.BillingController(router, billingService, billingFeed)
	usercontroller.UserController(router, userService)
	notifycontroller.DeadLetterController(router, notify)

	router.Run()
}
